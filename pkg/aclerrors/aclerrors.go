// Copyright 2026 The aclgo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aclerrors defines the typed error taxonomy surfaced to callers
// of the evaluator and executor. It would have been nice to call this
// package "errors", but that clashes with the standard library.
package aclerrors

import (
	"fmt"
	"strings"
)

// ResourceNotFound is returned when an operation that requires an
// existing resource is given a path that does not resolve to one.
type ResourceNotFound struct {
	Path string
}

func (e *ResourceNotFound) Error() string {
	return fmt.Sprintf("error: resource not found: %s", e.Path)
}

// IsResourceNotFound implements the marker interface.
func (e *ResourceNotFound) IsResourceNotFound() {}

// PermissionDenied is raised only by the executor tier; the evaluator
// itself never raises it, it only ever returns a (possibly zero) mask.
type PermissionDenied struct {
	Subject  string
	Required string
	Resource string
}

func (e *PermissionDenied) Error() string {
	return fmt.Sprintf("error: permission denied: %s requires %s on %s", e.Subject, e.Required, e.Resource)
}

// IsPermissionDenied implements the marker interface.
func (e *PermissionDenied) IsPermissionDenied() {}

// InvalidOp is returned when a chmod-style set() op is not one of = + -.
type InvalidOp struct {
	Op string
}

func (e *InvalidOp) Error() string { return fmt.Sprintf("error: invalid op: %q", e.Op) }

// IsInvalidOp implements the marker interface.
func (e *InvalidOp) IsInvalidOp() {}

// InvalidMaskExpression is returned when a chmod expression fails to parse.
type InvalidMaskExpression struct {
	Expr string
}

func (e *InvalidMaskExpression) Error() string {
	return fmt.Sprintf("error: invalid mask expression: %q", e.Expr)
}

// IsInvalidMaskExpression implements the marker interface.
func (e *InvalidMaskExpression) IsInvalidMaskExpression() {}

// DependencyCycle is raised by the evaluator when a (kind, subject,
// resource) key reappears on its own visited stack. Chain is the
// visited stack at the point of detection, oldest entry first.
type DependencyCycle struct {
	Chain []string
}

func (e *DependencyCycle) Error() string {
	return fmt.Sprintf("error: dependency cycle: %s", strings.Join(e.Chain, " -> "))
}

// IsDependencyCycle implements the marker interface.
func (e *DependencyCycle) IsDependencyCycle() {}

// AclMissing is returned when depend() targets a (subject, resource)
// pair that has no primary ACL entry yet.
type AclMissing struct {
	SubjectID  string
	ResourceID string
}

func (e *AclMissing) Error() string {
	return fmt.Sprintf("error: no primary acl for subject %s on resource %s", e.SubjectID, e.ResourceID)
}

// IsAclMissing implements the marker interface.
func (e *AclMissing) IsAclMissing() {}
