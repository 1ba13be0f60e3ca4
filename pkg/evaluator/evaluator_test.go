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

package evaluator_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cs3org/aclgo/pkg/acltable"
	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/evaluator"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
	"github.com/cs3org/aclgo/pkg/store/memstore"
	"github.com/cs3org/aclgo/pkg/strategy"
)

var _ = Describe("Evaluator", func() {
	var (
		ctx context.Context
		s   *memstore.Store
		ev  *evaluator.Evaluator
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = memstore.New(resourcetree.DefaultConfig())
		ev = evaluator.New(s, nil)
	})

	Describe("basic grant via role inheritance", func() {
		It("grants the masks assigned to an inherited role", func() {
			_, err := s.Define(ctx, "foo.bar.baz", nil, "")
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Assign(ctx, rolegraph.ROLE, "admin_role", "foo.bar.baz", permbits.All, 0)
			Expect(err).NotTo(HaveOccurred())

			s.PutUser(rolegraph.User{ID: "u", RoleIDs: []string{"admin_role"}})

			mask, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "foo.bar.baz", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask.Has(permbits.VISIT)).To(BeTrue())
			Expect(mask.Has(permbits.All)).To(BeTrue())
		})
	})

	Describe("deny masks allow at the same node", func() {
		It("clears the denied bits from the allow bits", func() {
			_, err := s.Define(ctx, "a", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})
			_, err = s.Assign(ctx, rolegraph.USER, "u", "a", permbits.All, permbits.MODIFY)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "a", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.VISIT | permbits.AVAILABLE))
		})
	})

	Describe("an OVERRIDE node wipes what a MERGE ancestor granted", func() {
		It("zeros the child while the parent keeps its grant", func() {
			merge := resourcetree.MERGE
			override := resourcetree.OVERRIDE
			_, err := s.Define(ctx, "x", &merge, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "x.y", &override, "")
			Expect(err).NotTo(HaveOccurred())

			s.PutUser(rolegraph.User{ID: "u"})
			_, err = s.Assign(ctx, rolegraph.USER, "u", "x", permbits.All, 0)
			Expect(err).NotTo(HaveOccurred())

			maskX, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "x", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(maskX).To(Equal(permbits.All))

			maskY, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "x.y", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(maskY).To(Equal(permbits.None))
		})
	})

	Describe("strategy chain", func() {
		It("adds MODIFY only when the context marks the caller as owner", func() {
			_, err := s.Define(ctx, "r", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})

			owner := func(_ rolegraph.User, _ string, c any, cur permbits.Permission, _ strategy.Lookup) (permbits.Permission, error) {
				m, _ := c.(map[string]string)
				if m["role"] == "owner" {
					return cur | permbits.MODIFY, nil
				}
				return cur, nil
			}
			ev2 := evaluator.New(s, strategy.NewEngine(owner))

			mask, err := ev2.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "r", map[string]string{"role": "owner"})
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.MODIFY))

			mask, err = ev2.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "r", map[string]string{"role": "user"})
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.None))
		})

		It("bypasses the strategy chain for a role top-level subject", func() {
			_, err := s.Define(ctx, "r", nil, "")
			Expect(err).NotTo(HaveOccurred())

			owner := func(_ rolegraph.User, _ string, _ any, cur permbits.Permission, _ strategy.Lookup) (permbits.Permission, error) {
				return cur | permbits.MODIFY, nil
			}
			ev2 := evaluator.New(s, strategy.NewEngine(owner))

			mask, err := ev2.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.ROLE, ID: "some_role"}, "r", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.None))
		})
	})

	Describe("dependency gate", func() {
		It("excludes the ACL until the dependency mask is satisfied", func() {
			_, err := s.Define(ctx, "p", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "q", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})

			_, err = s.Assign(ctx, rolegraph.USER, "u", "p", permbits.All, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Depend(ctx, rolegraph.USER, "u", "p", acltable.AclDependency{
				SubjectKind: rolegraph.USER, SubjectID: "u", ResourceID: "q", Required: permbits.VISIT,
			})
			Expect(err).NotTo(HaveOccurred())
			qEntry, err := s.Assign(ctx, rolegraph.USER, "u", "q", permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "p", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.None))

			Expect(s.UpdateACL(ctx, qEntry, permbits.VISIT, nil)).NotTo(HaveOccurred())

			mask, err = ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "p", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.All))
		})
	})

	Describe("cycle detection", func() {
		It("raises DependencyCycle listing both keys", func() {
			_, err := s.Define(ctx, "a", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "b", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})

			_, err = s.Assign(ctx, rolegraph.USER, "u", "a", permbits.All, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Depend(ctx, rolegraph.USER, "u", "a", acltable.AclDependency{
				SubjectKind: rolegraph.USER, SubjectID: "u", ResourceID: "b", Required: permbits.VISIT,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Assign(ctx, rolegraph.USER, "u", "b", permbits.All, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Depend(ctx, rolegraph.USER, "u", "b", acltable.AclDependency{
				SubjectKind: rolegraph.USER, SubjectID: "u", ResourceID: "a", Required: permbits.VISIT,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "a", nil)
			Expect(err).To(HaveOccurred())

			var cycle *aclerrors.DependencyCycle
			Expect(err).To(BeAssignableToTypeOf(cycle))
			cycle = err.(*aclerrors.DependencyCycle)
			Expect(cycle.Chain).To(ContainElements("user:u@a", "user:u@b"))
		})
	})

	Describe("no matching ACLs anywhere on the chain", func() {
		It("returns zero regardless of mode combination", func() {
			override := resourcetree.OVERRIDE
			_, err := s.Define(ctx, "x", &override, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "ghost"})

			mask, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "ghost"}, "x", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.None))
		})
	})

	Describe("purity", func() {
		It("returns the same mask for two calls with no intervening mutation", func() {
			_, err := s.Define(ctx, "a", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})
			_, err = s.Assign(ctx, rolegraph.USER, "u", "a", permbits.VISIT, 0)
			Expect(err).NotTo(HaveOccurred())

			m1, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "a", nil)
			Expect(err).NotTo(HaveOccurred())
			m2, err := ev.EffectivePermissions(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "a", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(m1).To(Equal(m2))
		})
	})

	Describe("Explain", func() {
		It("records the per-node contribution that produced the mask", func() {
			merge := resourcetree.MERGE
			override := resourcetree.OVERRIDE
			_, err := s.Define(ctx, "x", &merge, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "x.y", &override, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})
			_, err = s.Assign(ctx, rolegraph.USER, "u", "x", permbits.VISIT, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Assign(ctx, rolegraph.USER, "u", "x.y", permbits.MODIFY, 0)
			Expect(err).NotTo(HaveOccurred())

			steps, mask, err := ev.Explain(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "x.y", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(Equal(permbits.MODIFY))
			Expect(steps).To(HaveLen(2))
			Expect(steps[0].ResourceID).To(Equal("x"))
			Expect(steps[0].Mode).To(Equal(resourcetree.MERGE))
			Expect(steps[1].ResourceID).To(Equal("x.y"))
			Expect(steps[1].Mode).To(Equal(resourcetree.OVERRIDE))
		})
	})
})
