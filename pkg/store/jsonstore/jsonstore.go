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

// Package jsonstore is the JSON-file persistence backend: the same
// in-memory forest/table/maps as memstore, loaded from and flushed to a
// single JSON document on disk holding users[], roles[], resources[],
// acls[] with inline dependencies[], and tracks[] with inline levels[].
//
// The store is single-writer, but the backing file may still be touched
// by an out-of-process tool (an operator editing it by hand, a backup
// job), so Save takes an advisory github.com/gofrs/flock around the
// write.
package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/cs3org/aclgo/pkg/acltable"
	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/alog"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
	"github.com/cs3org/aclgo/pkg/tracks"
)

var log = alog.New("store/jsonstore")

// Store is the JSON-file Store implementation.
type Store struct {
	cfg  resourcetree.Config
	path string

	mu    sync.Mutex
	tree  *resourcetree.Index
	acls  *acltable.Table
	users map[string]rolegraph.User
	roles rolegraph.Roles
	trks  map[string]tracks.Track
}

// New creates an empty Store backed by path; call Load to populate it
// from an existing file, or Save to create one.
func New(cfg resourcetree.Config, path string) *Store {
	return &Store{
		cfg:   cfg,
		path:  path,
		tree:  resourcetree.NewIndex(),
		acls:  acltable.NewTable(),
		users: map[string]rolegraph.User{},
		roles: rolegraph.Roles{},
		trks:  map[string]tracks.Track{},
	}
}

// document is the on-disk JSON shape.
type document struct {
	Users     []userDoc     `json:"users"`
	Roles     []roleDoc     `json:"roles"`
	Resources []resourceDoc `json:"resources"`
	ACLs      []aclDoc      `json:"acls"`
	Tracks    []trackDoc    `json:"tracks"`
}

type userDoc struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	RoleIDs []string `json:"role_ids,omitempty"`
}

type roleDoc struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ParentRoleIDs []string `json:"parent_role_ids,omitempty"`
}

type resourceDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"`
	InheritMode int    `json:"inherit_mode"`
	Type        string `json:"type"`
}

type dependencyDoc struct {
	SubjectKind int    `json:"subject_kind"`
	SubjectID   string `json:"subject_id"`
	ResourceID  string `json:"resource_id"`
	Required    uint8  `json:"required"`
}

type aclDoc struct {
	ID           string          `json:"id"`
	SubjectKind  int             `json:"subject_kind"`
	SubjectID    string          `json:"subject_id"`
	ResourceID   string          `json:"resource_id"`
	AllowMask    uint8           `json:"allow_mask"`
	DenyMask     uint8           `json:"deny_mask"`
	Dependencies []dependencyDoc `json:"dependencies,omitempty"`
}

type levelDoc struct {
	RoleID   string `json:"role_id" yaml:"role_id"`
	Position int    `json:"position" yaml:"position"`
}

type trackDoc struct {
	ID     string     `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Levels []levelDoc `json:"levels" yaml:"levels"`
}

// Load reads the JSON document at s.path and replaces s's in-memory
// state with it. A missing file is not an error: New already leaves the
// store empty, which is what Load would produce for an empty document.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree = resourcetree.NewIndex()
	s.acls = acltable.NewTable()
	s.users = map[string]rolegraph.User{}
	s.roles = rolegraph.Roles{}
	s.trks = map[string]tracks.Track{}

	for _, r := range doc.Resources {
		s.tree.Put(resourcetree.ResourceNode{
			ID:          r.ID,
			Name:        r.Name,
			ParentID:    r.ParentID,
			InheritMode: resourcetree.InheritMode(r.InheritMode),
			Type:        r.Type,
		})
	}
	for _, u := range doc.Users {
		s.users[u.ID] = rolegraph.User{ID: u.ID, Name: u.Name, RoleIDs: u.RoleIDs}
	}
	for _, r := range doc.Roles {
		s.roles[r.ID] = rolegraph.Role{ID: r.ID, Name: r.Name, ParentRoleIDs: r.ParentRoleIDs}
	}
	for _, a := range doc.ACLs {
		entry := s.acls.Assign(rolegraph.SubjectKind(a.SubjectKind), a.SubjectID, a.ResourceID, permbits.Permission(a.AllowMask), permbits.Permission(a.DenyMask))
		entry.ID = a.ID
		for _, d := range a.Dependencies {
			entry.Dependencies = append(entry.Dependencies, acltable.AclDependency{
				SubjectKind: rolegraph.SubjectKind(d.SubjectKind),
				SubjectID:   d.SubjectID,
				ResourceID:  d.ResourceID,
				Required:    permbits.Permission(d.Required),
			})
		}
	}
	for _, t := range doc.Tracks {
		s.trks[t.ID] = trackFromDoc(t)
	}
	return nil
}

// Save serialises s's current in-memory state to s.path, under an
// advisory file lock so a concurrent external reader/writer does not
// observe a torn write.
func (s *Store) Save() error {
	s.mu.Lock()
	doc := s.snapshot()
	s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	fl := flock.New(s.path + ".lock")
	if err := fl.Lock(); err != nil {
		return err
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to release jsonstore lock")
		}
	}()

	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) snapshot() document {
	var doc document
	for _, n := range s.tree.All() {
		doc.Resources = append(doc.Resources, resourceDoc{
			ID: n.ID, Name: n.Name, ParentID: n.ParentID,
			InheritMode: int(n.InheritMode), Type: n.Type,
		})
	}
	for _, u := range s.users {
		doc.Users = append(doc.Users, userDoc{ID: u.ID, Name: u.Name, RoleIDs: u.RoleIDs})
	}
	for _, r := range s.roles {
		doc.Roles = append(doc.Roles, roleDoc{ID: r.ID, Name: r.Name, ParentRoleIDs: r.ParentRoleIDs})
	}
	for _, n := range s.tree.All() {
		for _, e := range s.acls.IterForResource(n.ID) {
			ad := aclDoc{
				ID: e.ID, SubjectKind: int(e.SubjectKind), SubjectID: e.SubjectID,
				ResourceID: e.ResourceID, AllowMask: uint8(e.AllowMask), DenyMask: uint8(e.DenyMask),
			}
			for _, d := range e.Dependencies {
				ad.Dependencies = append(ad.Dependencies, dependencyDoc{
					SubjectKind: int(d.SubjectKind), SubjectID: d.SubjectID,
					ResourceID: d.ResourceID, Required: uint8(d.Required),
				})
			}
			doc.ACLs = append(doc.ACLs, ad)
		}
	}
	for _, t := range s.trks {
		doc.Tracks = append(doc.Tracks, trackToDoc(t))
	}
	return doc
}

func trackFromDoc(t trackDoc) tracks.Track {
	levels := make([]tracks.Level, len(t.Levels))
	for i, l := range t.Levels {
		levels[i] = tracks.Level{RoleID: l.RoleID, Position: l.Position}
	}
	return tracks.Track{ID: t.ID, Name: t.Name, Levels: levels}
}

func trackToDoc(t tracks.Track) trackDoc {
	levels := make([]levelDoc, len(t.Levels))
	for i, l := range t.Levels {
		levels[i] = levelDoc{RoleID: l.RoleID, Position: l.Position}
	}
	return trackDoc{ID: t.ID, Name: t.Name, Levels: levels}
}

// LoadTrackFixturesYAML loads a list of tracks from a YAML fixture file
// (distinct from the JSON persisted document) and registers them,
// convenient for seeding a development store from a checked-in ladder
// definition.
func (s *Store) LoadTrackFixturesYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var docs []trackDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.trks[d.ID] = trackFromDoc(d)
	}
	return nil
}

// PutTrack registers or replaces a track ladder definition.
func (s *Store) PutTrack(t tracks.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trks[t.ID] = t
}

// Track returns the registered track for id, if any.
func (s *Store) Track(id string) (tracks.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trks[id]
	return t, ok
}

// PutUser inserts or replaces a user record.
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

// Separator returns the configured path separator.
func (s *Store) Separator() string {
	if s.cfg.Separator == "" {
		return "."
	}
	return s.cfg.Separator
}

// NormalizeID strips leading/trailing separators from id.
func (s *Store) NormalizeID(id string) string {
	return strings.Trim(id, s.Separator())
}
