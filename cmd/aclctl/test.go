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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cs3org/aclgo/pkg/permbits"
	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// newTestCmd wraps Executor.Test: the root-tier predicate, optionally
// memoised by the executor's ttlcache.
func newTestCmd() *cobra.Command {
	var missingOK bool
	var kindStr string

	cmd := &cobra.Command{
		Use:   "test <subject-id> <path> <required>",
		Short: "report whether subject holds required on path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseSubjectKind(kindStr)
			if err != nil {
				return err
			}
			required, err := permbits.ParseMask(args[2])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			subject := rolegraph.Subject{Kind: kind, ID: args[0]}
			ok, err := a.exec.Test(cmd.Context(), subject, args[1], required, missingOK, nil)
			if err != nil {
				return err
			}
			return render(cmd, ok, func() string { return fmt.Sprintf("%v", ok) })
		},
	}

	cmd.Flags().StringVar(&kindStr, "kind", "user", "subject kind: user or role")
	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "default to VISIT|AVAILABLE when path does not resolve to a resource")
	return cmd
}
