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

package executor

import (
	"context"

	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// requiredSelf is the parent-side precondition Set enforces before
// touching a node; Suset performs no such check.
const requiredSelf = permbits.VISIT | permbits.MODIFY | permbits.AVAILABLE

// Get is the executor-gated read: it resolves path, requires the
// executor hold VISIT on it, and returns the executor's own effective
// mask. A deny anywhere on an ancestor already zeros VISIT, so no
// separate parent check is needed.
func (e *Executor) Get(ctx context.Context, executor rolegraph.User, path string, missingOK bool, evalCtx any) (*permbits.Permission, error) {
	node, ok, err := e.resolveSingle(ctx, path, missingOK)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	selfMask, err := e.Eval.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: executor.ID}, node.ID, evalCtx)
	if err != nil {
		return nil, err
	}
	selfMask, err = e.seedIfACLLess(ctx, node, selfMask)
	if err != nil {
		return nil, err
	}
	if !selfMask.Has(permbits.VISIT) {
		return nil, &aclerrors.PermissionDenied{Subject: executor.ID, Required: permbits.VISIT.String(), Resource: node.ID}
	}
	return &selfMask, nil
}

// Set is the executor-gated mutation. For every resource path_or_pattern
// resolves to, it requires the executor hold VISIT|MODIFY|AVAILABLE on
// the parent (a hard failure, aborting the whole call) and MODIFY on
// the node itself (a silent per-match skip, so pattern operations keep
// going past matches the executor cannot touch).
func (e *Executor) Set(ctx context.Context, executor rolegraph.User, target rolegraph.Subject, pathOrPattern string, mask permbits.Permission, op permbits.Op, deny, missingOK bool, evalCtx any) error {
	nodes, err := e.resolveTargets(ctx, pathOrPattern, missingOK)
	if err != nil {
		return err
	}

	execSubject := rolegraph.Subject{Kind: rolegraph.USER, ID: executor.ID}
	for _, node := range nodes {
		if node.HasParent() {
			parentMask, err := e.Eval.EffectivePermissions(ctx, execSubject, node.ParentID, evalCtx)
			if err != nil {
				return err
			}
			if !parentMask.Has(requiredSelf) {
				return &aclerrors.PermissionDenied{Subject: executor.ID, Required: requiredSelf.String(), Resource: node.ParentID}
			}
		}

		selfMask, err := e.Eval.EffectivePermissions(ctx, execSubject, node.ID, evalCtx)
		if err != nil {
			return err
		}
		if !selfMask.Has(permbits.MODIFY) {
			log.Debug().Str("resource", node.ID).Str("executor", executor.ID).Msg("set: executor lacks MODIFY, skipping match")
			continue
		}

		if err := e.applyMutation(ctx, target, node.ID, mask, op, deny); err != nil {
			return err
		}
		e.invalidateTestCache(node.ID)
	}
	return nil
}

// Suget is the root-tier read: no gating, straight to the evaluator.
func (e *Executor) Suget(ctx context.Context, subject rolegraph.Subject, path string, missingOK bool, evalCtx any) (*permbits.Permission, error) {
	node, ok, err := e.resolveSingle(ctx, path, missingOK)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	mask, err := e.Eval.EffectivePermissions(ctx, subject, node.ID, evalCtx)
	if err != nil {
		return nil, err
	}
	mask, err = e.seedIfACLLess(ctx, node, mask)
	if err != nil {
		return nil, err
	}
	return &mask, nil
}

// Suset is the root-tier mutation: the same apply_op/assign/update_acl
// steps as Set, without any gating check, and it materialises missing
// resources (via Store.Define) rather than failing when missingOK is
// set and the single path doesn't resolve to anything yet.
func (e *Executor) Suset(ctx context.Context, target rolegraph.Subject, pathOrPattern string, mask permbits.Permission, op permbits.Op, deny, missingOK bool) error {
	var nodeIDs []string

	if resourcetree.IsPattern(pathOrPattern) {
		nodes, err := e.Store.GlobResources(ctx, pathOrPattern)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			nodeIDs = append(nodeIDs, n.ID)
		}
	} else {
		node, ok, err := e.resolveSingle(ctx, pathOrPattern, missingOK)
		if err != nil {
			return err
		}
		if !ok {
			created, err := e.Store.Define(ctx, pathOrPattern, nil, "")
			if err != nil {
				return err
			}
			node = created
		}
		nodeIDs = []string{node.ID}
	}

	for _, rid := range nodeIDs {
		if err := e.applyMutation(ctx, target, rid, mask, op, deny); err != nil {
			return err
		}
		e.invalidateTestCache(rid)
	}
	return nil
}

// applyMutation implements steps 3-5 shared by Set and Suset: fetch the
// primary ACL for (target, rid), fold mask into whichever side deny
// selects via op, and assign or update accordingly.
func (e *Executor) applyMutation(ctx context.Context, target rolegraph.Subject, rid string, mask permbits.Permission, op permbits.Op, deny bool) error {
	entry, ok, err := e.Store.GetPrimaryACL(ctx, target.Kind, target.ID, rid)
	if err != nil {
		return err
	}

	var oldSide permbits.Permission
	if ok {
		if deny {
			oldSide = entry.DenyMask
		} else {
			oldSide = entry.AllowMask
		}
	}

	newSide, err := permbits.Apply(op, oldSide, mask)
	if err != nil {
		return err
	}

	if !ok {
		var allow, denyMask permbits.Permission
		if deny {
			denyMask = newSide
		} else {
			allow = newSide
		}
		_, err := e.Store.Assign(ctx, target.Kind, target.ID, rid, allow, denyMask)
		return err
	}

	allow, denyMask := entry.AllowMask, entry.DenyMask
	if deny {
		denyMask = newSide
	} else {
		allow = newSide
	}
	return e.Store.UpdateACL(ctx, entry, allow, &denyMask)
}

// defaultAbsentMask is what Test compares against when missing_ok papers
// over an absent resource.
const defaultAbsentMask = permbits.VISIT | permbits.AVAILABLE

// Test is the root-tier predicate: Suget then compare, with the
// optional ttlcache-backed memo keyed on (subject, resource, required).
func (e *Executor) Test(ctx context.Context, subject rolegraph.Subject, path string, required permbits.Permission, missingOK bool, evalCtx any) (bool, error) {
	node, ok, err := e.resolveSingle(ctx, path, missingOK)
	if err != nil {
		return false, err
	}
	if !ok {
		return defaultAbsentMask.Has(required), nil
	}

	if e.testCache != nil {
		k := testCacheKey(subject, node.ID, required)
		if v, err := e.testCache.Get(k); err == nil {
			return v.(bool), nil
		}
	}

	mask, err := e.Eval.EffectivePermissions(ctx, subject, node.ID, evalCtx)
	if err != nil {
		return false, err
	}
	mask, err = e.seedIfACLLess(ctx, node, mask)
	if err != nil {
		return false, err
	}
	result := mask.Has(required)

	if e.testCache != nil {
		_ = e.testCache.Set(testCacheKey(subject, node.ID, required), result)
	}
	return result, nil
}

// Chmod is the root-tier convenience wrapper parsing a chmod expression
// and applying it as subject's own primary ACL on path via Suset.
func (e *Executor) Chmod(ctx context.Context, subject rolegraph.Subject, path, expr string, missingOK bool) error {
	parsed, err := permbits.ParseExpr(expr)
	if err != nil {
		return err
	}
	if err := e.Suset(ctx, subject, path, parsed.Mask, parsed.Op, parsed.Deny, missingOK); err != nil {
		return err
	}
	return nil
}
