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

package memstore_test

import (
	"context"
	"testing"

	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
	"github.com/cs3org/aclgo/pkg/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineThenGetResource(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(resourcetree.DefaultConfig())

	_, err := s.Define(ctx, "foo.bar", nil, "")
	require.NoError(t, err)

	n, err := s.GetResource(ctx, "foo.bar")
	require.NoError(t, err)
	assert.Equal(t, "foo.bar", n.ID)

	_, err = s.GetResource(ctx, "nope")
	assert.Error(t, err)
}

func TestAssignAndIterACLs(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(resourcetree.DefaultConfig())
	_, _ = s.Define(ctx, "foo", nil, "")

	_, err := s.Assign(ctx, rolegraph.USER, "u1", "foo", permbits.All, 0)
	require.NoError(t, err)

	entries, err := s.IterACLsForResource(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].SubjectID)
}

func TestInheritRoleRejectsSelfLoop(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(resourcetree.DefaultConfig())
	assert.Error(t, s.InheritRole(ctx, "admin", "admin"))
	assert.NoError(t, s.InheritRole(ctx, "admin", "viewer"))

	roles, err := s.Roles(ctx)
	require.NoError(t, err)
	require.Contains(t, roles, "admin")
	assert.Equal(t, []string{"viewer"}, roles["admin"].ParentRoleIDs)
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(resourcetree.DefaultConfig())
	_, err := s.GetUser(ctx, "ghost")
	assert.Error(t, err)

	s.PutUser(rolegraph.User{ID: "u1", RoleIDs: []string{"admin"}})
	u, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, u.RoleIDs)
}
