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

package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"

	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// CachedEvaluator layers an optional cross-call memo on top of an
// Evaluator. The evaluator's own per-call cache is never shared across
// calls, keeping each evaluation isolated from concurrent mutation;
// callers that want cross-call caching layer this wrapper above it, it
// is not a replacement for the per-call cache.
//
// evalCtx must be comparable (nil, a string, a small struct of
// comparable fields, ...) since it becomes part of the cache key;
// passing an uncomparable context (a slice, a map) panics, matching
// Go map-key semantics.
type CachedEvaluator struct {
	eval *Evaluator
	c    gcache.Cache
}

// NewCachedEvaluator wraps eval with an LRU cache of size entries, each
// valid for ttl.
func NewCachedEvaluator(eval *Evaluator, size int, ttl time.Duration) *CachedEvaluator {
	return &CachedEvaluator{
		eval: eval,
		c:    gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

type cacheKey struct {
	kind       rolegraph.SubjectKind
	sid        string
	resourceID string
	evalCtx    any
}

// EffectivePermissions returns the cached mask for (subject, resourceID,
// evalCtx) if present and unexpired, else computes and caches it.
func (c *CachedEvaluator) EffectivePermissions(ctx context.Context, subject rolegraph.Subject, resourceID string, evalCtx any) (permbits.Permission, error) {
	k := cacheKey{subject.Kind, subject.ID, resourceID, evalCtx}
	if v, err := c.c.Get(k); err == nil {
		return v.(permbits.Permission), nil
	}

	mask, err := c.eval.EffectivePermissions(ctx, subject, resourceID, evalCtx)
	if err != nil {
		return 0, err
	}
	_ = c.c.Set(k, mask)
	return mask, nil
}

// Invalidate drops every cached entry for resourceID, regardless of
// subject or context. Callers must invalidate after any mutation that
// could change resourceID's effective permissions (assign/update/chmod);
// the cache has no other way to learn about store writes.
func (c *CachedEvaluator) Invalidate(resourceID string) {
	for _, k := range c.c.Keys(false) {
		if ck, ok := k.(cacheKey); ok && ck.resourceID == resourceID {
			c.c.Remove(k)
		}
	}
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s:%s@%s#%v", k.kind, k.sid, k.resourceID, k.evalCtx)
}
