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

// Package store defines the abstract read/write surface the evaluator
// and executor consume. The store itself -- in-memory, JSON-file, or SQL
// -- is an external collaborator; this package only names the contract.
// Implementations are treated as single-writer: the core never
// serialises concurrent mutations for the caller.
package store

import (
	"context"

	"github.com/cs3org/aclgo/pkg/acltable"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// Store is the interface the core (evaluator + executor) consumes. It
// never outlives the caller's request and owns no in-flight evaluation
// state -- that is the evaluator's job.
type Store interface {
	// GetResource fails with *aclerrors.ResourceNotFound if id is absent.
	GetResource(ctx context.Context, id string) (resourcetree.ResourceNode, error)
	// GetResourceChain returns [self, parent, ..., root].
	GetResourceChain(ctx context.Context, id string) ([]resourcetree.ResourceNode, error)
	// GlobResources returns every resource whose id matches the shell
	// pattern.
	GlobResources(ctx context.Context, pattern string) ([]resourcetree.ResourceNode, error)
	// MatchResources returns every resource for which predicate is true.
	MatchResources(ctx context.Context, predicate func(resourcetree.ResourceNode) bool) ([]resourcetree.ResourceNode, error)
	// IterACLsForResource returns every ACL entry attached to id, in
	// insertion order.
	IterACLsForResource(ctx context.Context, id string) ([]*acltable.AclEntry, error)
	// GetPrimaryACL returns the primary entry for (kind, subjectID, rid),
	// or ok=false if there is none.
	GetPrimaryACL(ctx context.Context, kind rolegraph.SubjectKind, subjectID, rid string) (*acltable.AclEntry, bool, error)
	// GetUser fails with *aclerrors.ResourceNotFound if id is unknown.
	GetUser(ctx context.Context, id string) (rolegraph.User, error)
	// Roles returns the full id -> Role mapping, for ExpandRoles.
	Roles(ctx context.Context) (rolegraph.Roles, error)

	// Define materialises path (creating missing ancestors) and returns
	// the terminal node. mode == nil means the default OVERRIDE; typ ==
	// "" defaults to FILE.
	Define(ctx context.Context, path string, mode *resourcetree.InheritMode, typ string) (resourcetree.ResourceNode, error)
	// Assign creates the primary ACL entry for (kind, subjectID, rid);
	// a no-op if one already exists.
	Assign(ctx context.Context, kind rolegraph.SubjectKind, subjectID, rid string, allow, deny permbits.Permission) (*acltable.AclEntry, error)
	// UpdateACL mutates entry's allow mask, and its deny mask when deny
	// is non-nil.
	UpdateACL(ctx context.Context, entry *acltable.AclEntry, allow permbits.Permission, deny *permbits.Permission) error
	// Depend appends a dependency onto the existing primary entry for
	// (targetKind, targetSubjectID, targetRid). Fails with
	// *aclerrors.AclMissing if there is no such primary entry.
	Depend(ctx context.Context, targetKind rolegraph.SubjectKind, targetSubjectID, targetRid string, dep acltable.AclDependency) (*acltable.AclEntry, error)
	// InheritRole adds parentRole to child's ParentRoleIDs.
	InheritRole(ctx context.Context, child, parentRole string) error
}
