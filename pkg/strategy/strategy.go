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

// Package strategy implements the ordered chain of user-supplied
// mask-transforming hooks applied after base ACL evaluation. Strategies
// are an ordered slice of closures, registered in call order and applied
// in that same order; a strategy has no identity beyond its position.
package strategy

import (
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// Lookup re-enters mask computation for a different subject, with a
// fresh visited stack but (implementation-defined) shared cache. The
// evaluator package supplies the concrete implementation.
type Lookup func(subject rolegraph.Subject, ctx any) (permbits.Permission, error)

// Strategy transforms the running mask for (user, resource, context)
// after base ACL evaluation. lookup lets a strategy ask for another
// subject's effective mask without recursing into private evaluator
// state.
type Strategy func(user rolegraph.User, resourceID string, ctx any, current permbits.Permission, lookup Lookup) (permbits.Permission, error)

// Engine is an ordered chain of strategies, applied in registration
// order. The zero value is a usable, empty engine.
type Engine struct {
	chain []Strategy
}

// NewEngine creates an engine with the given strategies already
// registered, in order.
func NewEngine(strategies ...Strategy) *Engine {
	e := &Engine{}
	e.Register(strategies...)
	return e
}

// Register appends strategies to the end of the chain.
func (e *Engine) Register(strategies ...Strategy) {
	e.chain = append(e.chain, strategies...)
}

// Apply runs every registered strategy over mask in order, threading the
// running value through each. Strategies apply only when the top-level
// subject is a USER; callers evaluating a ROLE should not call Apply
// (the evaluator enforces this).
func (e *Engine) Apply(user rolegraph.User, resourceID string, ctx any, mask permbits.Permission, lookup Lookup) (permbits.Permission, error) {
	running := mask
	for _, s := range e.chain {
		next, err := s(user, resourceID, ctx, running, lookup)
		if err != nil {
			return 0, err
		}
		running = next
	}
	return running, nil
}
