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

// newChmodCmd wraps Executor.Chmod: parse a chmod expression and apply it
// as subject's own primary ACL on path.
func newChmodCmd() *cobra.Command {
	var missingOK bool
	var kindStr string

	cmd := &cobra.Command{
		Use:   "chmod <subject-id> <path-or-pattern> <expr>",
		Short: "parse and apply a chmod-style expression for subject on path",
		Args:  cobra.ExactArgs(3),
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
			if err := a.exec.Chmod(cmd.Context(), subject, args[1], args[2], missingOK); err != nil {
				return err
			}
			return a.persist()
		},
	}

	cmd.Flags().StringVar(&kindStr, "kind", "user", "subject kind: user or role")
	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "materialise path as a new resource when it does not exist yet")
	return cmd
}
