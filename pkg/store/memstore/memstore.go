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

// Package memstore is the reference in-memory Store implementation: a
// radix-indexed resource forest, an ACL table, and plain maps for users
// and roles. It has no persistence of its own and exists as the Store
// every other backend (and the evaluator's own tests) is validated
// against.
package memstore

import (
	"context"
	"strings"
	"sync"

	"github.com/cs3org/aclgo/pkg/acltable"
	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// Store is the in-memory Store.
type Store struct {
	cfg resourcetree.Config

	mu    sync.Mutex
	tree  *resourcetree.Index
	acls  *acltable.Table
	users map[string]rolegraph.User
	roles rolegraph.Roles
}

// New creates an empty Store using cfg's separator for path ids.
func New(cfg resourcetree.Config) *Store {
	return &Store{
		cfg:   cfg,
		tree:  resourcetree.NewIndex(),
		acls:  acltable.NewTable(),
		users: map[string]rolegraph.User{},
		roles: rolegraph.Roles{},
	}
}

// PutUser inserts or replaces a user record. Not part of the Store
// interface -- it is a setup/fixture affordance for this reference
// backend and for tests.
func (s *Store) PutUser(u rolegraph.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutRole inserts or replaces a role record.
func (s *Store) PutRole(r rolegraph.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[r.ID] = r
}

func (s *Store) GetResource(_ context.Context, id string) (resourcetree.ResourceNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.tree.Get(id)
	if !ok {
		return resourcetree.ResourceNode{}, &aclerrors.ResourceNotFound{Path: id}
	}
	return n, nil
}

func (s *Store) GetResourceChain(_ context.Context, id string) ([]resourcetree.ResourceNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resourcetree.Chain(id, s.tree.Get)
}

func (s *Store) GlobResources(_ context.Context, pattern string) ([]resourcetree.ResourceNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Glob(pattern)
}

func (s *Store) MatchResources(_ context.Context, predicate func(resourcetree.ResourceNode) bool) ([]resourcetree.ResourceNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Match(predicate), nil
}

func (s *Store) IterACLsForResource(_ context.Context, id string) ([]*acltable.AclEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acls.IterForResource(id), nil
}

func (s *Store) GetPrimaryACL(_ context.Context, kind rolegraph.SubjectKind, subjectID, rid string) (*acltable.AclEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.acls.GetPrimary(kind, subjectID, rid)
	return e, ok, nil
}

func (s *Store) GetUser(_ context.Context, id string) (rolegraph.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return rolegraph.User{}, &aclerrors.ResourceNotFound{Path: id}
	}
	return u, nil
}

func (s *Store) Roles(_ context.Context) (rolegraph.Roles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(rolegraph.Roles, len(s.roles))
	for k, v := range s.roles {
		out[k] = v
	}
	return out, nil
}

func (s *Store) Define(_ context.Context, path string, mode *resourcetree.InheritMode, typ string) (resourcetree.ResourceNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Define(s.cfg, path, mode, typ), nil
}

func (s *Store) Assign(_ context.Context, kind rolegraph.SubjectKind, subjectID, rid string, allow, deny permbits.Permission) (*acltable.AclEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acls.Assign(kind, subjectID, rid, allow, deny), nil
}

func (s *Store) UpdateACL(_ context.Context, entry *acltable.AclEntry, allow permbits.Permission, deny *permbits.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acls.Update(entry, allow, deny)
	return nil
}

func (s *Store) Depend(_ context.Context, targetKind rolegraph.SubjectKind, targetSubjectID, targetRid string, dep acltable.AclDependency) (*acltable.AclEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acls.Depend(targetKind, targetSubjectID, targetRid, dep)
}

func (s *Store) InheritRole(_ context.Context, child, parentRole string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if child == parentRole {
		return &aclerrors.InvalidMaskExpression{Expr: "role " + child + " cannot inherit from itself"}
	}
	r, ok := s.roles[child]
	if !ok {
		r = rolegraph.Role{ID: child, Name: child}
	}
	for _, p := range r.ParentRoleIDs {
		if p == parentRole {
			return nil
		}
	}
	r.ParentRoleIDs = append(r.ParentRoleIDs, parentRole)
	s.roles[child] = r
	return nil
}

// Separator returns the configured path separator, mostly useful to
// callers building paths programmatically.
func (s *Store) Separator() string {
	if s.cfg.Separator == "" {
		return "."
	}
	return s.cfg.Separator
}

// NormalizeID strips leading/trailing separators from an id the same way
// Define does, so callers can compare ids consistently.
func (s *Store) NormalizeID(id string) string {
	return strings.Trim(id, s.Separator())
}
