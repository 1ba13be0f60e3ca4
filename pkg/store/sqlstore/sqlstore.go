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

// Package sqlstore is the embedded-SQL persistence backend: the same
// Store contract as memstore and jsonstore, backed by database/sql
// against a MySQL-compatible DSN, with tables for resources, roles,
// users, user_roles, acls, acl_dependencies, tracks and track_levels.
//
// The schema sticks to portable SQL (no engine-specific AUTO_INCREMENT)
// so the same DDL runs against MySQL in production and SQLite in tests.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	// Registers the mysql driver for NewMySQL callers.
	_ "github.com/go-sql-driver/mysql"

	"github.com/cs3org/aclgo/pkg/acltable"
	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/alog"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

var log = alog.New("store/sqlstore")

// Store is the database/sql-backed Store implementation.
type Store struct {
	cfg resourcetree.Config
	db  *sql.DB
}

// New wraps an already-open *sql.DB. Callers owning connection pooling
// themselves (pool size, MySQL vs. a test SQLite file) use this; NewMySQL
// is the convenience constructor for the common case.
func New(cfg resourcetree.Config, db *sql.DB) *Store {
	return &Store{cfg: cfg, db: db}
}

// NewMySQL opens a MySQL-compatible DSN (see go-sql-driver/mysql's DSN
// format) and wraps it as a Store.
func NewMySQL(cfg resourcetree.Config, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error opening mysql connection")
	}
	return New(cfg, db), nil
}

// schema is intentionally dialect-portable: no AUTO_INCREMENT, sequence
// numbers are assigned by the application inside a transaction instead.
const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	parent_id VARCHAR(255) NOT NULL DEFAULT '',
	inherit_mode INTEGER NOT NULL,
	type VARCHAR(32) NOT NULL
);
CREATE TABLE IF NOT EXISTS roles (
	id VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);
CREATE TABLE IF NOT EXISTS user_roles (
	subject_kind INTEGER NOT NULL,
	subject_id VARCHAR(255) NOT NULL,
	role_id VARCHAR(255) NOT NULL,
	ord INTEGER NOT NULL,
	PRIMARY KEY (subject_kind, subject_id, role_id)
);
CREATE TABLE IF NOT EXISTS acls (
	id VARCHAR(255) PRIMARY KEY,
	seq INTEGER NOT NULL,
	subject_kind INTEGER NOT NULL,
	subject_id VARCHAR(255) NOT NULL,
	resource_id VARCHAR(255) NOT NULL,
	allow_mask INTEGER NOT NULL,
	deny_mask INTEGER NOT NULL,
	UNIQUE (subject_kind, subject_id, resource_id)
);
CREATE TABLE IF NOT EXISTS acl_dependencies (
	acl_id VARCHAR(255) NOT NULL,
	subject_kind INTEGER NOT NULL,
	subject_id VARCHAR(255) NOT NULL,
	resource_id VARCHAR(255) NOT NULL,
	required INTEGER NOT NULL,
	ord INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tracks (
	id VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);
CREATE TABLE IF NOT EXISTS track_levels (
	track_id VARCHAR(255) NOT NULL,
	role_id VARCHAR(255) NOT NULL,
	position INTEGER NOT NULL
);
`

// CreateSchema creates every table this store needs if it does not
// already exist. Safe to call on every process start.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return errors.Wrap(err, "sqlstore: error creating schema")
}

func (s *Store) GetResource(ctx context.Context, id string) (resourcetree.ResourceNode, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, parent_id, inherit_mode, type FROM resources WHERE id = ?", id)
	n, err := scanResource(row)
	if err == sql.ErrNoRows {
		return resourcetree.ResourceNode{}, &aclerrors.ResourceNotFound{Path: id}
	}
	if err != nil {
		return resourcetree.ResourceNode{}, errors.Wrap(err, "sqlstore: error fetching resource")
	}
	return n, nil
}

func scanResource(row *sql.Row) (resourcetree.ResourceNode, error) {
	var n resourcetree.ResourceNode
	var mode int
	if err := row.Scan(&n.ID, &n.Name, &n.ParentID, &mode, &n.Type); err != nil {
		return resourcetree.ResourceNode{}, err
	}
	n.InheritMode = resourcetree.InheritMode(mode)
	return n, nil
}

func (s *Store) GetResourceChain(ctx context.Context, id string) ([]resourcetree.ResourceNode, error) {
	var chain []resourcetree.ResourceNode
	cur := id
	seen := map[string]bool{}
	for cur != "" {
		if seen[cur] {
			break
		}
		seen[cur] = true
		n, err := s.GetResource(ctx, cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, n)
		cur = n.ParentID
	}
	return chain, nil
}

// allResources loads every resource row; glob/match filtering happens in
// Go since the shell-style pattern grammar has no direct SQL equivalent.
func (s *Store) allResources(ctx context.Context) ([]resourcetree.ResourceNode, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, parent_id, inherit_mode, type FROM resources")
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error listing resources")
	}
	defer rows.Close()

	var out []resourcetree.ResourceNode
	for rows.Next() {
		var n resourcetree.ResourceNode
		var mode int
		if err := rows.Scan(&n.ID, &n.Name, &n.ParentID, &mode, &n.Type); err != nil {
			return nil, err
		}
		n.InheritMode = resourcetree.InheritMode(mode)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) GlobResources(ctx context.Context, pattern string) ([]resourcetree.ResourceNode, error) {
	all, err := s.allResources(ctx)
	if err != nil {
		return nil, err
	}
	idx := resourcetree.NewIndex()
	for _, n := range all {
		idx.Put(n)
	}
	return idx.Glob(pattern)
}

func (s *Store) MatchResources(ctx context.Context, predicate func(resourcetree.ResourceNode) bool) ([]resourcetree.ResourceNode, error) {
	all, err := s.allResources(ctx)
	if err != nil {
		return nil, err
	}
	var out []resourcetree.ResourceNode
	for _, n := range all {
		if predicate(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) IterACLsForResource(ctx context.Context, id string) ([]*acltable.AclEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, subject_kind, subject_id, resource_id, allow_mask, deny_mask FROM acls WHERE resource_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error listing acls")
	}
	defer rows.Close()

	var out []*acltable.AclEntry
	for rows.Next() {
		e, err := scanAclRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range out {
		deps, err := s.dependenciesFor(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Dependencies = deps
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAclRow(row scanner) (*acltable.AclEntry, error) {
	e := &acltable.AclEntry{}
	var kind int
	var allow, deny uint8
	if err := row.Scan(&e.ID, &kind, &e.SubjectID, &e.ResourceID, &allow, &deny); err != nil {
		return nil, err
	}
	e.SubjectKind = rolegraph.SubjectKind(kind)
	e.AllowMask = permbits.Permission(allow)
	e.DenyMask = permbits.Permission(deny)
	return e, nil
}

func (s *Store) dependenciesFor(ctx context.Context, aclID string) ([]acltable.AclDependency, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT subject_kind, subject_id, resource_id, required FROM acl_dependencies WHERE acl_id = ? ORDER BY ord", aclID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error listing acl dependencies")
	}
	defer rows.Close()

	var out []acltable.AclDependency
	for rows.Next() {
		var kind int
		var required uint8
		var d acltable.AclDependency
		if err := rows.Scan(&kind, &d.SubjectID, &d.ResourceID, &required); err != nil {
			return nil, err
		}
		d.SubjectKind = rolegraph.SubjectKind(kind)
		d.Required = permbits.Permission(required)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetPrimaryACL(ctx context.Context, kind rolegraph.SubjectKind, subjectID, rid string) (*acltable.AclEntry, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, subject_kind, subject_id, resource_id, allow_mask, deny_mask FROM acls WHERE subject_kind = ? AND subject_id = ? AND resource_id = ?", int(kind), subjectID, rid)
	e, err := scanAclRow(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "sqlstore: error fetching primary acl")
	}
	deps, err := s.dependenciesFor(ctx, e.ID)
	if err != nil {
		return nil, false, err
	}
	e.Dependencies = deps
	return e, true, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (rolegraph.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name FROM users WHERE id = ?", id)
	var u rolegraph.User
	if err := row.Scan(&u.ID, &u.Name); err != nil {
		if err == sql.ErrNoRows {
			return rolegraph.User{}, &aclerrors.ResourceNotFound{Path: id}
		}
		return rolegraph.User{}, errors.Wrap(err, "sqlstore: error fetching user")
	}

	roleIDs, err := s.membershipRoleIDs(ctx, rolegraph.USER, id)
	if err != nil {
		return rolegraph.User{}, err
	}
	u.RoleIDs = roleIDs
	return u, nil
}

// membershipRoleIDs returns the ordered role_id column of user_roles for
// (subjectKind, subjectID): USER rows are a user's direct memberships,
// ROLE rows are a role's direct parents.
func (s *Store) membershipRoleIDs(ctx context.Context, subjectKind rolegraph.SubjectKind, subjectID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT role_id FROM user_roles WHERE subject_kind = ? AND subject_id = ? ORDER BY ord", int(subjectKind), subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error listing role memberships")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, err
		}
		out = append(out, roleID)
	}
	return out, rows.Err()
}

func (s *Store) Roles(ctx context.Context) (rolegraph.Roles, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM roles")
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error listing roles")
	}
	defer rows.Close()

	out := rolegraph.Roles{}
	var ids []string
	for rows.Next() {
		var r rolegraph.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out[r.ID] = r
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		parents, err := s.membershipRoleIDs(ctx, rolegraph.ROLE, id)
		if err != nil {
			return nil, err
		}
		r := out[id]
		r.ParentRoleIDs = parents
		out[id] = r
	}
	return out, nil
}

// Define materialises path, creating missing ancestors as DIR/MERGE
// nodes and the terminal with mode/typ (default OVERRIDE/FILE), inside a
// single transaction so a concurrent reader never observes a partial
// path.
func (s *Store) Define(ctx context.Context, path string, mode *resourcetree.InheritMode, typ string) (resourcetree.ResourceNode, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return resourcetree.ResourceNode{}, errors.Wrap(err, "sqlstore: error starting define transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	segments := s.cfg.Split(path)
	var parentID string
	var node resourcetree.ResourceNode

	for i, seg := range segments {
		id := s.cfg.Join(segments[:i+1])
		isTerminal := i == len(segments)-1

		existing, ok, err := txGetResource(ctx, tx, id)
		if err != nil {
			return resourcetree.ResourceNode{}, err
		}

		switch {
		case !ok && isTerminal:
			m := resourcetree.OVERRIDE
			if mode != nil {
				m = *mode
			}
			t := typ
			if t == "" {
				t = resourcetree.TypeFile
			}
			node = resourcetree.ResourceNode{ID: id, Name: seg, ParentID: parentID, InheritMode: m, Type: t}
			if err := txPutResource(ctx, tx, node); err != nil {
				return resourcetree.ResourceNode{}, err
			}
		case !ok && !isTerminal:
			node = resourcetree.ResourceNode{ID: id, Name: seg, ParentID: parentID, InheritMode: resourcetree.MERGE, Type: resourcetree.TypeDir}
			if err := txPutResource(ctx, tx, node); err != nil {
				return resourcetree.ResourceNode{}, err
			}
		case ok && isTerminal:
			if mode != nil {
				existing.InheritMode = *mode
			}
			if typ != "" {
				existing.Type = typ
			}
			if err := txPutResource(ctx, tx, existing); err != nil {
				return resourcetree.ResourceNode{}, err
			}
			node = existing
		default: // ok && !isTerminal
			existing.InheritMode = resourcetree.MERGE
			existing.Type = resourcetree.TypeDir
			if err := txPutResource(ctx, tx, existing); err != nil {
				return resourcetree.ResourceNode{}, err
			}
			node = existing
		}
		parentID = id
	}

	if err := tx.Commit(); err != nil {
		return resourcetree.ResourceNode{}, errors.Wrap(err, "sqlstore: error committing define transaction")
	}
	return node, nil
}

func txGetResource(ctx context.Context, tx *sql.Tx, id string) (resourcetree.ResourceNode, bool, error) {
	row := tx.QueryRowContext(ctx, "SELECT id, name, parent_id, inherit_mode, type FROM resources WHERE id = ?", id)
	n, err := scanResource(row)
	if err == sql.ErrNoRows {
		return resourcetree.ResourceNode{}, false, nil
	}
	if err != nil {
		return resourcetree.ResourceNode{}, false, err
	}
	return n, true, nil
}

func txPutResource(ctx context.Context, tx *sql.Tx, n resourcetree.ResourceNode) error {
	_, err := tx.ExecContext(ctx,
		"REPLACE INTO resources (id, name, parent_id, inherit_mode, type) VALUES (?, ?, ?, ?, ?)",
		n.ID, n.Name, n.ParentID, int(n.InheritMode), n.Type)
	return err
}

func (s *Store) Assign(ctx context.Context, kind rolegraph.SubjectKind, subjectID, rid string, allow, deny permbits.Permission) (*acltable.AclEntry, error) {
	existing, ok, err := s.GetPrimaryACL(ctx, kind, subjectID, rid)
	if err != nil {
		return nil, err
	}
	if ok {
		return existing, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error starting assign transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	var maxSeq sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(seq) FROM acls").Scan(&maxSeq); err != nil {
		return nil, err
	}
	seq := maxSeq.Int64 + 1

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO acls (id, seq, subject_kind, subject_id, resource_id, allow_mask, deny_mask) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, seq, int(kind), subjectID, rid, uint8(allow), uint8(deny)); err != nil {
		return nil, errors.Wrap(err, "sqlstore: error inserting acl")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "sqlstore: error committing assign transaction")
	}

	return &acltable.AclEntry{
		ID: id, SubjectKind: kind, SubjectID: subjectID, ResourceID: rid,
		AllowMask: allow, DenyMask: deny,
	}, nil
}

func (s *Store) UpdateACL(ctx context.Context, entry *acltable.AclEntry, allow permbits.Permission, deny *permbits.Permission) error {
	entry.AllowMask = allow
	if deny != nil {
		entry.DenyMask = *deny
		_, err := s.db.ExecContext(ctx, "UPDATE acls SET allow_mask = ?, deny_mask = ? WHERE id = ?", uint8(allow), uint8(*deny), entry.ID)
		return errors.Wrap(err, "sqlstore: error updating acl")
	}
	_, err := s.db.ExecContext(ctx, "UPDATE acls SET allow_mask = ? WHERE id = ?", uint8(allow), entry.ID)
	return errors.Wrap(err, "sqlstore: error updating acl")
}

func (s *Store) Depend(ctx context.Context, targetKind rolegraph.SubjectKind, targetSubjectID, targetRid string, dep acltable.AclDependency) (*acltable.AclEntry, error) {
	entry, ok, err := s.GetPrimaryACL(ctx, targetKind, targetSubjectID, targetRid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &aclerrors.AclMissing{SubjectID: targetSubjectID, ResourceID: targetRid}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: error starting depend transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	var maxOrd sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(ord) FROM acl_dependencies WHERE acl_id = ?", entry.ID).Scan(&maxOrd); err != nil {
		return nil, err
	}
	ord := maxOrd.Int64 + 1

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO acl_dependencies (acl_id, subject_kind, subject_id, resource_id, required, ord) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, int(dep.SubjectKind), dep.SubjectID, dep.ResourceID, uint8(dep.Required), ord); err != nil {
		return nil, errors.Wrap(err, "sqlstore: error inserting acl dependency")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "sqlstore: error committing depend transaction")
	}

	entry.Dependencies = append(entry.Dependencies, dep)
	return entry, nil
}

func (s *Store) InheritRole(ctx context.Context, child, parentRole string) error {
	if child == parentRole {
		return &aclerrors.InvalidMaskExpression{Expr: "role " + child + " cannot inherit from itself"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlstore: error starting inherit transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "REPLACE INTO roles (id, name) SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM roles WHERE id = ?)", child, child, child); err != nil {
		return errors.Wrap(err, "sqlstore: error ensuring role row")
	}

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_roles WHERE subject_kind = ? AND subject_id = ? AND role_id = ?", int(rolegraph.ROLE), child, parentRole).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return tx.Commit()
	}

	var maxOrd sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(ord) FROM user_roles WHERE subject_kind = ? AND subject_id = ?", int(rolegraph.ROLE), child).Scan(&maxOrd); err != nil {
		return err
	}
	ord := maxOrd.Int64 + 1

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_roles (subject_kind, subject_id, role_id, ord) VALUES (?, ?, ?, ?)",
		int(rolegraph.ROLE), child, parentRole, ord); err != nil {
		return errors.Wrap(err, "sqlstore: error inserting role inheritance edge")
	}

	return errors.Wrap(tx.Commit(), "sqlstore: error committing inherit transaction")
}

// PutUser inserts or replaces a user record and its direct role
// memberships.
func (s *Store) PutUser(ctx context.Context, u rolegraph.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlstore: error starting put-user transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "REPLACE INTO users (id, name) VALUES (?, ?)", u.ID, u.Name); err != nil {
		return errors.Wrap(err, "sqlstore: error upserting user")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE subject_kind = ? AND subject_id = ?", int(rolegraph.USER), u.ID); err != nil {
		return err
	}
	for i, roleID := range u.RoleIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_roles (subject_kind, subject_id, role_id, ord) VALUES (?, ?, ?, ?)",
			int(rolegraph.USER), u.ID, roleID, i); err != nil {
			return errors.Wrap(err, "sqlstore: error inserting role membership")
		}
	}
	return errors.Wrap(tx.Commit(), "sqlstore: error committing put-user transaction")
}

// PutRole inserts or replaces a role record and its direct parents.
func (s *Store) PutRole(ctx context.Context, r rolegraph.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlstore: error starting put-role transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "REPLACE INTO roles (id, name) VALUES (?, ?)", r.ID, r.Name); err != nil {
		return errors.Wrap(err, "sqlstore: error upserting role")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE subject_kind = ? AND subject_id = ?", int(rolegraph.ROLE), r.ID); err != nil {
		return err
	}
	for i, parentID := range r.ParentRoleIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_roles (subject_kind, subject_id, role_id, ord) VALUES (?, ?, ?, ?)",
			int(rolegraph.ROLE), r.ID, parentID, i); err != nil {
			return errors.Wrap(err, "sqlstore: error inserting parent role edge")
		}
	}
	return errors.Wrap(tx.Commit(), "sqlstore: error committing put-role transaction")
}

// Close closes the underlying *sql.DB.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing sqlstore connection")
		return fmt.Errorf("sqlstore: error closing connection: %w", err)
	}
	return nil
}
