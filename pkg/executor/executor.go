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

// Package executor implements the chmod-style get/set/test protocol over
// the evaluator and store. Two privilege tiers exist: the root tier
// (Suget, Suset, Test, Chmod) performs no gating check of its own; the
// executor tier (Get, Set) takes an explicit executor principal and
// enforces the VISIT/MODIFY/AVAILABLE parent/self protocol before
// delegating to the root tier's machinery.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v2"

	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/alog"
	"github.com/cs3org/aclgo/pkg/evaluator"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
	"github.com/cs3org/aclgo/pkg/store"
)

var log = alog.New("executor")

// Executor is the chmod-style front end over an Evaluator and a Store.
type Executor struct {
	Store store.Store
	Eval  *evaluator.Evaluator

	// DefaultDirMask/DefaultFileMask seed the read path's result for a
	// resource that has no ACL entry of its own yet: a brand new,
	// ACL-less resource reads as this default rather than zero.
	DefaultDirMask, DefaultFileMask uint8

	testCache *ttlcache.Cache
}

// New creates an Executor. testCacheTTL of zero disables the test()
// result cache. dirMask/fileMask are the DEFAULT_DIR_MASK/DEFAULT_FILE_MASK
// an ACL-less resource's read falls back to (aclcfg.Config.DefaultDirMask/
// DefaultFileMask).
func New(st store.Store, eval *evaluator.Evaluator, testCacheTTL time.Duration, dirMask, fileMask uint8) *Executor {
	e := &Executor{Store: st, Eval: eval, DefaultDirMask: dirMask, DefaultFileMask: fileMask}
	if testCacheTTL > 0 {
		e.testCache = ttlcache.NewCache()
		e.testCache.SetTTL(testCacheTTL)
	}
	return e
}

// seedIfACLLess replaces a zero mask with the node-type default when node
// carries no ACL entry of its own. A mask that is zero because of an
// explicit deny, or because the subject simply doesn't match any ACL that
// exists, is left alone -- only the true "nobody has ever recorded a rule
// here" case is seeded.
func (e *Executor) seedIfACLLess(ctx context.Context, node resourcetree.ResourceNode, mask permbits.Permission) (permbits.Permission, error) {
	if mask != permbits.None {
		return mask, nil
	}
	entries, err := e.Store.IterACLsForResource(ctx, node.ID)
	if err != nil {
		return 0, err
	}
	if len(entries) > 0 {
		return mask, nil
	}
	return permbits.Permission(resourcetree.DefaultMaskFor(node.Type, e.DefaultDirMask, e.DefaultFileMask)), nil
}

func testCacheKey(subject rolegraph.Subject, resourceID string, required permbits.Permission) string {
	return fmt.Sprintf("%s:%s@%s?%s", subject.Kind, subject.ID, resourceID, required)
}

// invalidateTestCache drops every cached test() result after a mutation
// of resourceID, so a stale allow/deny never survives a chmod. A change
// on one resource also changes the answer for its descendants and for
// ACLs that depend on it, so the whole cache is cleared.
func (e *Executor) invalidateTestCache(resourceID string) {
	if e.testCache == nil {
		return
	}
	_ = e.testCache.Purge()
}

func containsResourceSegment(key, resourceID string) bool {
	marker := "@" + resourceID + "?"
	for i := 0; i+len(marker) <= len(key); i++ {
		if key[i:i+len(marker)] == marker {
			return true
		}
	}
	return false
}

// resolveSingle fetches path, or returns (zero, false, nil) if absent and
// missingOK, or a *aclerrors.ResourceNotFound otherwise.
func (e *Executor) resolveSingle(ctx context.Context, path string, missingOK bool) (resourcetree.ResourceNode, bool, error) {
	n, err := e.Store.GetResource(ctx, path)
	if err == nil {
		return n, true, nil
	}
	var nf *aclerrors.ResourceNotFound
	if !asResourceNotFound(err, &nf) {
		return resourcetree.ResourceNode{}, false, err
	}
	if missingOK {
		return resourcetree.ResourceNode{}, false, nil
	}
	return resourcetree.ResourceNode{}, false, err
}

func asResourceNotFound(err error, target **aclerrors.ResourceNotFound) bool {
	if nf, ok := err.(*aclerrors.ResourceNotFound); ok {
		*target = nf
		return true
	}
	return false
}

// resolveTargets resolves path as a single resource id or, if it
// contains glob metacharacters, as a pattern over every matching
// resource.
func (e *Executor) resolveTargets(ctx context.Context, pathOrPattern string, missingOK bool) ([]resourcetree.ResourceNode, error) {
	if resourcetree.IsPattern(pathOrPattern) {
		return e.Store.GlobResources(ctx, pathOrPattern)
	}
	n, ok, err := e.resolveSingle(ctx, pathOrPattern, missingOK)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []resourcetree.ResourceNode{n}, nil
}
