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

	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// Step is one chain node's contribution to the final mask, in root-to-
// leaf order.
type Step struct {
	ResourceID string
	Mode       resourcetree.InheritMode
	NodeAllow  permbits.Permission
	NodeDeny   permbits.Permission
	EffAfter   permbits.Permission
}

// Explain re-runs the base evaluation (not the strategy chain) while
// recording every chain node's contribution, for introspection and
// debugging. It shares none of its cache/visited state with a concurrent
// EffectivePermissions call.
func (e *Evaluator) Explain(ctx context.Context, subject rolegraph.Subject, resourceID string, evalCtx any) ([]Step, permbits.Permission, error) {
	st := newState()
	var steps []nodeContribution
	mask, err := e.computeMask(ctx, st, &steps, subject.Kind, subject.ID, resourceID, evalCtx)
	if err != nil {
		return nil, 0, err
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{
			ResourceID: s.ResourceID,
			Mode:       s.Mode,
			NodeAllow:  s.NodeAllow,
			NodeDeny:   s.NodeDeny,
			EffAfter:   s.EffAfter,
		}
	}
	return out, mask, nil
}
