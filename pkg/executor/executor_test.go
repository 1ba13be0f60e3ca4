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

package executor_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cs3org/aclgo/pkg/aclerrors"
	"github.com/cs3org/aclgo/pkg/evaluator"
	"github.com/cs3org/aclgo/pkg/executor"
	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/rolegraph"
	"github.com/cs3org/aclgo/pkg/store/memstore"
)

var _ = Describe("Executor", func() {
	var (
		ctx context.Context
		s   *memstore.Store
		ev  *evaluator.Evaluator
		ex  *executor.Executor
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = memstore.New(resourcetree.DefaultConfig())
		ev = evaluator.New(s, nil)
		ex = executor.New(s, ev, 0, 7, 6)
	})

	Describe("get", func() {
		It("returns the caller's own effective mask when VISIT is held", func() {
			_, err := s.Define(ctx, "doc", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})
			_, err = s.Assign(ctx, rolegraph.USER, "u", "doc", permbits.VISIT|permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ex.Get(ctx, rolegraph.User{ID: "u"}, "doc", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.VISIT | permbits.AVAILABLE))
		})

		It("fails PermissionDenied when the caller lacks VISIT", func() {
			_, err := s.Define(ctx, "secret", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})
			// an explicit ACL (rather than leaving "secret" ACL-less) so the
			// ACL-less default-mask seeding doesn't mask the denial.
			_, err = s.Assign(ctx, rolegraph.USER, "u", "secret", permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())

			_, err = ex.Get(ctx, rolegraph.User{ID: "u"}, "secret", false, nil)
			Expect(err).To(BeAssignableToTypeOf(&aclerrors.PermissionDenied{}))
		})

		It("returns nil without error when missing_ok and the path is absent", func() {
			s.PutUser(rolegraph.User{ID: "u"})
			mask, err := ex.Get(ctx, rolegraph.User{ID: "u"}, "nope", true, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mask).To(BeNil())
		})

		It("fails ResourceNotFound when missing_ok is false and the path is absent", func() {
			s.PutUser(rolegraph.User{ID: "u"})
			_, err := ex.Get(ctx, rolegraph.User{ID: "u"}, "nope", false, nil)
			Expect(err).To(BeAssignableToTypeOf(&aclerrors.ResourceNotFound{}))
		})
	})

	Describe("ACL-less default mask", func() {
		It("seeds a brand new, ACL-less DIR from DefaultDirMask instead of returning zero", func() {
			_, err := s.Define(ctx, "newdir", nil, resourcetree.TypeDir)
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})

			mask, err := ex.Suget(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "newdir", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.Permission(7)))
		})

		It("seeds a brand new, ACL-less FILE from DefaultFileMask instead of returning zero", func() {
			_, err := s.Define(ctx, "newfile", nil, resourcetree.TypeFile)
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})

			mask, err := ex.Suget(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "newfile", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.Permission(6)))
		})

		It("leaves an explicit zero mask alone once any ACL exists on the node", func() {
			_, err := s.Define(ctx, "deniedfile", nil, resourcetree.TypeFile)
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "u"})
			_, err = s.Assign(ctx, rolegraph.USER, "u", "deniedfile", permbits.All, permbits.All)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ex.Suget(ctx, rolegraph.Subject{Kind: rolegraph.USER, ID: "u"}, "deniedfile", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.None))
		})
	})

	Describe("executor gate", func() {
		It("silently skips a match the executor cannot modify", func() {
			_, err := s.Define(ctx, "p", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "p.r", nil, "")
			Expect(err).NotTo(HaveOccurred())

			s.PutUser(rolegraph.User{ID: "exec"})
			s.PutUser(rolegraph.User{ID: "target"})
			_, err = s.Assign(ctx, rolegraph.USER, "exec", "p", permbits.VISIT|permbits.MODIFY|permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())
			// exec has no ACL at all on "p.r", so self_mask there is 0: lacks MODIFY.

			err = ex.Set(ctx, rolegraph.User{ID: "exec"}, rolegraph.Subject{Kind: rolegraph.USER, ID: "target"}, "p.r", permbits.MODIFY, permbits.OpAdd, false, false, nil)
			Expect(err).NotTo(HaveOccurred())

			_, ok, err := s.GetPrimaryACL(ctx, rolegraph.USER, "target", "p.r")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse(), "set() must not have created a primary ACL for target")
		})

		It("fails PermissionDenied when the executor lacks the parent precondition", func() {
			_, err := s.Define(ctx, "q", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "q.r", nil, "")
			Expect(err).NotTo(HaveOccurred())

			s.PutUser(rolegraph.User{ID: "exec"})
			s.PutUser(rolegraph.User{ID: "target"})
			// exec holds nothing at all on "q".

			err = ex.Set(ctx, rolegraph.User{ID: "exec"}, rolegraph.Subject{Kind: rolegraph.USER, ID: "target"}, "q.r", permbits.MODIFY, permbits.OpAdd, false, false, nil)
			Expect(err).To(BeAssignableToTypeOf(&aclerrors.PermissionDenied{}))
		})
	})

	Describe("set applies the chmod-style op to the target's primary ACL", func() {
		It("creates a primary ACL when none exists, honoring OpAdd", func() {
			_, err := s.Define(ctx, "p2", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "p2.r", nil, "")
			Expect(err).NotTo(HaveOccurred())

			s.PutUser(rolegraph.User{ID: "exec"})
			s.PutUser(rolegraph.User{ID: "target"})
			_, err = s.Assign(ctx, rolegraph.USER, "exec", "p2", permbits.VISIT|permbits.MODIFY|permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Assign(ctx, rolegraph.USER, "exec", "p2.r", permbits.VISIT|permbits.MODIFY|permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())

			err = ex.Set(ctx, rolegraph.User{ID: "exec"}, rolegraph.Subject{Kind: rolegraph.USER, ID: "target"}, "p2.r", permbits.VISIT, permbits.OpAdd, false, false, nil)
			Expect(err).NotTo(HaveOccurred())

			entry, ok, err := s.GetPrimaryACL(ctx, rolegraph.USER, "target", "p2.r")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(entry.AllowMask).To(Equal(permbits.VISIT))
			Expect(entry.DenyMask).To(Equal(permbits.None))
		})
	})

	Describe("chmod round-trip", func() {
		It("suget after suset returns exactly the set mask when there is no deny", func() {
			_, err := s.Define(ctx, "doc3", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "s"})
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}

			err = ex.Suset(ctx, subject, "doc3", permbits.All, permbits.OpSet, false, false)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ex.Suget(ctx, subject, "doc3", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.All))
		})

		It("suset with missing_ok materialises the resource", func() {
			s.PutUser(rolegraph.User{ID: "s"})
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}

			err := ex.Suset(ctx, subject, "fresh.leaf", permbits.VISIT, permbits.OpSet, false, true)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ex.Suget(ctx, subject, "fresh.leaf", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.VISIT))
		})
	})

	Describe("test", func() {
		It("reports whether the required bits are held", func() {
			_, err := s.Define(ctx, "doc4", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "s"})
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}
			_, err = s.Assign(ctx, rolegraph.USER, "s", "doc4", permbits.VISIT, 0)
			Expect(err).NotTo(HaveOccurred())

			ok, err := ex.Test(ctx, subject, "doc4", permbits.VISIT, false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = ex.Test(ctx, subject, "doc4", permbits.MODIFY, false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("defaults to VISIT|AVAILABLE when missing_ok and the path is absent", func() {
			s.PutUser(rolegraph.User{ID: "s"})
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}

			ok, err := ex.Test(ctx, subject, "nowhere", permbits.VISIT, true, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = ex.Test(ctx, subject, "nowhere", permbits.MODIFY, true, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("serves repeated calls from the ttlcache memo without changing the answer", func() {
			cached := executor.New(s, ev, time.Minute, 7, 6)
			_, err := s.Define(ctx, "doc5", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "s"})
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}
			_, err = s.Assign(ctx, rolegraph.USER, "s", "doc5", permbits.VISIT, 0)
			Expect(err).NotTo(HaveOccurred())

			first, err := cached.Test(ctx, subject, "doc5", permbits.VISIT, false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(BeTrue())

			second, err := cached.Test(ctx, subject, "doc5", permbits.VISIT, false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Describe("chmod", func() {
		It("parses the expression and applies it as the subject's own ACL", func() {
			_, err := s.Define(ctx, "doc6", nil, "")
			Expect(err).NotTo(HaveOccurred())
			s.PutUser(rolegraph.User{ID: "s"})
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}

			err = ex.Chmod(ctx, subject, "doc6", "a=vma", false)
			Expect(err).NotTo(HaveOccurred())

			mask, err := ex.Suget(ctx, subject, "doc6", false, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*mask).To(Equal(permbits.All))
		})

		It("propagates InvalidMaskExpression for a malformed expression", func() {
			subject := rolegraph.Subject{Kind: rolegraph.USER, ID: "s"}
			err := ex.Chmod(ctx, subject, "doc7", "???", false)
			Expect(err).To(BeAssignableToTypeOf(&aclerrors.InvalidMaskExpression{}))
		})
	})

	Describe("pattern form", func() {
		It("skips matches the executor cannot modify but still applies the rest", func() {
			_, err := s.Define(ctx, "grp", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "grp.a", nil, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Define(ctx, "grp.b", nil, "")
			Expect(err).NotTo(HaveOccurred())

			s.PutUser(rolegraph.User{ID: "exec"})
			s.PutUser(rolegraph.User{ID: "target"})
			_, err = s.Assign(ctx, rolegraph.USER, "exec", "grp", permbits.VISIT|permbits.MODIFY|permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())
			// exec has MODIFY on grp.a but not on grp.b.
			_, err = s.Assign(ctx, rolegraph.USER, "exec", "grp.a", permbits.VISIT|permbits.MODIFY|permbits.AVAILABLE, 0)
			Expect(err).NotTo(HaveOccurred())

			err = ex.Set(ctx, rolegraph.User{ID: "exec"}, rolegraph.Subject{Kind: rolegraph.USER, ID: "target"}, "grp.*", permbits.VISIT, permbits.OpAdd, false, false, nil)
			Expect(err).NotTo(HaveOccurred())

			_, okA, err := s.GetPrimaryACL(ctx, rolegraph.USER, "target", "grp.a")
			Expect(err).NotTo(HaveOccurred())
			Expect(okA).To(BeTrue())

			_, okB, err := s.GetPrimaryACL(ctx, rolegraph.USER, "target", "grp.b")
			Expect(err).NotTo(HaveOccurred())
			Expect(okB).To(BeFalse())
		})
	})
})
