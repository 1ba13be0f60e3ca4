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

// Package evaluator computes the effective permission mask for a subject
// on a resource: it walks the resource chain root-to-leaf, folds
// allow/deny bits per the node's inheritance mode, resolves ACL
// dependencies recursively with cycle detection, and -- for a top-level
// user subject -- runs the result through the strategy chain.
//
// All per-request state (memo cache, visited stack) is explicit and
// local to one EffectivePermissions call tree, so an Evaluator is
// trivially reentrant and safe for concurrent top-level calls against a
// store that itself tolerates concurrent reads.
package evaluator

import (
	"context"
	"fmt"

	"github.com/cs3org/aclgo/pkg/acltable"
	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/alog"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
	"github.com/cs3org/aclgo/pkg/store"
	"github.com/cs3org/aclgo/pkg/strategy"
)

var log = alog.New("evaluator")

// Evaluator computes effective permissions against a Store.
type Evaluator struct {
	Store      store.Store
	Strategies *strategy.Engine
}

// New creates an Evaluator over st. strategies may be nil, equivalent to
// an empty chain.
func New(st store.Store, strategies *strategy.Engine) *Evaluator {
	if strategies == nil {
		strategies = &strategy.Engine{}
	}
	return &Evaluator{Store: st, Strategies: strategies}
}

// key is the memo-cache / visited-stack entry: subject kind distinguishes
// a role and a user that happen to share an id.
type key struct {
	kind rolegraph.SubjectKind
	sid  string
	rid  string
}

func (k key) String() string { return fmt.Sprintf("%s:%s@%s", k.kind, k.sid, k.rid) }

// state is the request-scoped memo cache and visited stack shared by one
// EffectivePermissions call tree. lookup() calls get a fresh visited
// stack but reuse the same cache map.
type state struct {
	cache      map[key]permbits.Permission
	visited    []key
	visitedSet map[key]bool
}

func newState() *state {
	return &state{cache: map[key]permbits.Permission{}, visitedSet: map[key]bool{}}
}

func (s *state) fork() *state {
	return &state{cache: s.cache, visitedSet: map[key]bool{}}
}

// EffectivePermissions computes the effective mask for subject on
// resourceID, applying the strategy chain when subject is a USER; a
// role top-level subject bypasses the strategy chain.
func (e *Evaluator) EffectivePermissions(ctx context.Context, subject rolegraph.Subject, resourceID string, evalCtx any) (permbits.Permission, error) {
	st := newState()
	mask, err := e.computeMask(ctx, st, nil, subject.Kind, subject.ID, resourceID, evalCtx)
	if err != nil {
		return 0, err
	}

	if subject.Kind != rolegraph.USER {
		return mask, nil
	}

	user, err := e.Store.GetUser(ctx, subject.ID)
	if err != nil {
		return 0, err
	}

	lookup := func(s2 rolegraph.Subject, c any) (permbits.Permission, error) {
		forked := st.fork()
		return e.computeMask(ctx, forked, nil, s2.Kind, s2.ID, resourceID, c)
	}
	return e.Strategies.Apply(user, resourceID, evalCtx, mask, lookup)
}

// nodeContribution records one chain node's effect on the running mask,
// used by Explain.
type nodeContribution struct {
	ResourceID string
	Mode       resourcetree.InheritMode
	NodeAllow  permbits.Permission
	NodeDeny   permbits.Permission
	EffAfter   permbits.Permission
}

// computeMask is the recursive core: the root-to-leaf fold of allow and
// deny bits over the resource chain, dependency checks included. When
// record is non-nil, the walk appends its per-node contribution -- used
// only by Explain; ordinary evaluation passes nil.
func (e *Evaluator) computeMask(ctx context.Context, st *state, record *[]nodeContribution, kind rolegraph.SubjectKind, sid, rid string, evalCtx any) (permbits.Permission, error) {
	k := key{kind, sid, rid}

	if v, ok := st.cache[k]; ok {
		return v, nil
	}
	if st.visitedSet[k] {
		chain := make([]string, 0, len(st.visited)+1)
		for _, v := range st.visited {
			chain = append(chain, v.String())
		}
		chain = append(chain, k.String())
		return 0, &aclerrors.DependencyCycle{Chain: chain}
	}

	st.visited = append(st.visited, k)
	st.visitedSet[k] = true
	defer func() {
		st.visitedSet[k] = false
		st.visited = st.visited[:len(st.visited)-1]
	}()

	relevant, err := e.relevantSubjects(ctx, kind, sid)
	if err != nil {
		return 0, err
	}

	chain, err := e.Store.GetResourceChain(ctx, rid)
	if err != nil {
		return 0, err
	}
	rootToLeaf := resourcetree.Reversed(chain)

	var eff permbits.Permission
	for _, node := range rootToLeaf {
		entries, err := e.Store.IterACLsForResource(ctx, node.ID)
		if err != nil {
			return 0, err
		}

		var nodeAllow, nodeDeny permbits.Permission
		for _, acl := range entries {
			if !relevant[rolegraph.Subject{Kind: acl.SubjectKind, ID: acl.SubjectID}] {
				continue
			}
			ok, err := e.checkDeps(ctx, st, acl, evalCtx)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}
			nodeAllow |= acl.AllowMask
			nodeDeny |= acl.DenyMask
		}

		switch node.InheritMode {
		case resourcetree.MERGE:
			eff |= nodeAllow
		case resourcetree.OVERRIDE:
			eff = nodeAllow
		case resourcetree.INHERIT:
			// no-op: eff carries forward unchanged
		}
		if nodeDeny != 0 {
			eff &^= nodeDeny
		}

		if record != nil {
			*record = append(*record, nodeContribution{
				ResourceID: node.ID,
				Mode:       node.InheritMode,
				NodeAllow:  nodeAllow,
				NodeDeny:   nodeDeny,
				EffAfter:   eff,
			})
		}
	}

	st.cache[k] = eff
	return eff, nil
}

// relevantSubjects returns the set of (kind, id) pairs whose ACLs may
// contribute: the subject itself plus every role it transitively
// inherits.
func (e *Evaluator) relevantSubjects(ctx context.Context, kind rolegraph.SubjectKind, sid string) (map[rolegraph.Subject]bool, error) {
	var seeds []string
	if kind == rolegraph.USER {
		u, err := e.Store.GetUser(ctx, sid)
		if err != nil {
			return nil, err
		}
		seeds = u.RoleIDs
	} else {
		seeds = []string{sid}
	}

	roles, err := e.Store.Roles(ctx)
	if err != nil {
		return nil, err
	}
	expanded := rolegraph.ExpandRoles(roles, seeds)

	relevant := map[rolegraph.Subject]bool{{Kind: kind, ID: sid}: true}
	for _, r := range expanded {
		relevant[rolegraph.Subject{Kind: rolegraph.ROLE, ID: r}] = true
	}
	return relevant, nil
}

// checkDeps evaluates every dependency hanging off acl; a single failed
// dependency silently excludes acl from the fold rather than failing
// evaluation.
func (e *Evaluator) checkDeps(ctx context.Context, st *state, acl *acltable.AclEntry, evalCtx any) (bool, error) {
	for _, dep := range acl.Dependencies {
		depMask, err := e.computeMask(ctx, st, nil, dep.SubjectKind, dep.SubjectID, dep.ResourceID, evalCtx)
		if err != nil {
			return false, err
		}
		if !depMask.Has(dep.Required) {
			log.Debug().Str("resource", acl.ResourceID).Str("dep_resource", dep.ResourceID).Msg("dependency unmet, excluding acl")
			return false, nil
		}
	}
	return true, nil
}
