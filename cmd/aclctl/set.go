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

package main

import (
	"github.com/spf13/cobra"

	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// newSetCmd wraps Executor.Set: the executor-gated mutation, requiring
// VISIT|MODIFY|AVAILABLE on the parent and MODIFY on the target itself
// (a pattern match the executor cannot touch is silently skipped).
func newSetCmd() *cobra.Command {
	var missingOK bool
	var targetKindStr string

	cmd := &cobra.Command{
		Use:   "set <executor-id> <target-id> <path-or-pattern> <expr>",
		Short: "apply a chmod-style expression as the executor, gated",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetKind, err := parseSubjectKind(targetKindStr)
			if err != nil {
				return err
			}
			parsed, err := permbits.ParseExpr(args[3])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			executor := rolegraph.User{ID: args[0]}
			target := rolegraph.Subject{Kind: targetKind, ID: args[1]}
			if err := a.exec.Set(cmd.Context(), executor, target, args[2], parsed.Mask, parsed.Op, parsed.Deny, missingOK, nil); err != nil {
				return err
			}
			return a.persist()
		},
	}

	cmd.Flags().StringVar(&targetKindStr, "target-kind", "user", "target subject kind: user or role")
	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "skip rather than fail when path does not resolve to a resource")
	return cmd
}

// newSusetCmd wraps Executor.Suset: the ungated root-tier mutation that
// also materialises a missing single-path resource.
func newSusetCmd() *cobra.Command {
	var missingOK bool
	var targetKindStr string

	cmd := &cobra.Command{
		Use:   "suset <target-id> <path-or-pattern> <expr>",
		Short: "apply a chmod-style expression, no gating",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetKind, err := parseSubjectKind(targetKindStr)
			if err != nil {
				return err
			}
			parsed, err := permbits.ParseExpr(args[2])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			target := rolegraph.Subject{Kind: targetKind, ID: args[0]}
			if err := a.exec.Suset(cmd.Context(), target, args[1], parsed.Mask, parsed.Op, parsed.Deny, missingOK); err != nil {
				return err
			}
			return a.persist()
		},
	}

	cmd.Flags().StringVar(&targetKindStr, "target-kind", "user", "target subject kind: user or role")
	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "materialise path as a new resource when it does not exist yet")
	return cmd
}
