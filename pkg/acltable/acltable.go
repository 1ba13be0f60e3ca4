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

// Package acltable implements the ACL table: allow/deny rules keyed by
// (subject kind, subject id, resource id), with at most one primary entry
// per key and an ordered list of dependencies hanging off each entry.
package acltable

import (
	"github.com/google/uuid"

	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// AclDependency is a precondition: the ACL it hangs off only contributes
// if RequiredMask is fully present in the effective mask of
// (SubjectKind, SubjectID) on ResourceID.
type AclDependency struct {
	SubjectKind rolegraph.SubjectKind
	SubjectID   string
	ResourceID  string
	Required    permbits.Permission
}

// AclEntry is one allow/deny rule. Dependencies are appended in insertion
// order by Depend.
type AclEntry struct {
	ID           string
	SubjectKind  rolegraph.SubjectKind
	SubjectID    string
	ResourceID   string
	AllowMask    permbits.Permission
	DenyMask     permbits.Permission
	Dependencies []AclDependency
}

// key identifies the (subject_kind, subject_id, resource_id) primary slot.
type key struct {
	kind rolegraph.SubjectKind
	sid  string
	rid  string
}

// Table is the ACL table for one resource forest. It is not safe for
// concurrent mutation; callers serialise writes (the store is
// single-writer).
type Table struct {
	byResource map[string][]*AclEntry // insertion order, per resource
	primary    map[key]*AclEntry
}

// NewTable creates an empty ACL table.
func NewTable() *Table {
	return &Table{
		byResource: map[string][]*AclEntry{},
		primary:    map[key]*AclEntry{},
	}
}

// IterForResource returns every entry attached to rid, in insertion order.
func (t *Table) IterForResource(rid string) []*AclEntry {
	return append([]*AclEntry(nil), t.byResource[rid]...)
}

// GetPrimary returns the primary entry for (kind, sid, rid), if any.
func (t *Table) GetPrimary(kind rolegraph.SubjectKind, sid, rid string) (*AclEntry, bool) {
	e, ok := t.primary[key{kind, sid, rid}]
	return e, ok
}

// Assign creates the primary entry for (kind, sid, rid) with the given
// allow/deny masks. A no-op if a primary already exists; returns the
// existing entry in that case.
func (t *Table) Assign(kind rolegraph.SubjectKind, sid, rid string, allow, deny permbits.Permission) *AclEntry {
	k := key{kind, sid, rid}
	if e, ok := t.primary[k]; ok {
		return e
	}
	e := &AclEntry{
		ID:          uuid.NewString(),
		SubjectKind: kind,
		SubjectID:   sid,
		ResourceID:  rid,
		AllowMask:   allow,
		DenyMask:    deny,
	}
	t.primary[k] = e
	t.byResource[rid] = append(t.byResource[rid], e)
	return e
}

// Update modifies an existing entry's allow mask in place, and its deny
// mask when deny is non-nil.
func (t *Table) Update(entry *AclEntry, allow permbits.Permission, deny *permbits.Permission) {
	entry.AllowMask = allow
	if deny != nil {
		entry.DenyMask = *deny
	}
}

// Depend appends a dependency onto the primary entry for (kind, sid,
// rid). Returns AclMissing if there is no primary entry yet.
func (t *Table) Depend(kind rolegraph.SubjectKind, sid, rid string, dep AclDependency) (*AclEntry, error) {
	e, ok := t.GetPrimary(kind, sid, rid)
	if !ok {
		return nil, &aclerrors.AclMissing{SubjectID: sid, ResourceID: rid}
	}
	e.Dependencies = append(e.Dependencies, dep)
	return e, nil
}
