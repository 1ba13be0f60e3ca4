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

	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// newGetCmd wraps Executor.Get: the executor-gated read, requiring the
// caller hold VISIT on the resource.
func newGetCmd() *cobra.Command {
	var missingOK bool

	cmd := &cobra.Command{
		Use:   "get <executor-id> <path>",
		Short: "report the executor's own effective mask on a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			executor := rolegraph.User{ID: args[0]}
			mask, err := a.exec.Get(cmd.Context(), executor, args[1], missingOK, nil)
			if err != nil {
				return err
			}
			if mask == nil {
				cmd.Println("(absent)")
				return nil
			}
			return render(cmd, mask, func() string { return mask.String() })
		},
	}

	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "print (absent) instead of failing when path does not resolve to a resource")
	return cmd
}

// newSugetCmd wraps Executor.Suget: the ungated root-tier read.
func newSugetCmd() *cobra.Command {
	var missingOK bool
	var kindStr string

	cmd := &cobra.Command{
		Use:   "suget <subject-id> <path>",
		Short: "report subject's effective mask on a resource, no gating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseSubjectKind(kindStr)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			subject := rolegraph.Subject{Kind: kind, ID: args[0]}
			mask, err := a.exec.Suget(cmd.Context(), subject, args[1], missingOK, nil)
			if err != nil {
				return err
			}
			if mask == nil {
				cmd.Println("(absent)")
				return nil
			}
			return render(cmd, mask, func() string { return mask.String() })
		},
	}

	cmd.Flags().StringVar(&kindStr, "kind", "user", "subject kind: user or role")
	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "print (absent) instead of failing when path does not resolve to a resource")
	return cmd
}
