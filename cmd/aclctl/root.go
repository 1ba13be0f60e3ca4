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
)

// NewRootCmd creates the root command for the aclctl CLI: a chmod-style
// front end over the executor package, one subcommand per verb.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aclctl",
		Short: "aclctl - inspect and mutate aclgo permissions",
		Long: `aclctl drives the get/set/suget/suset/test/chmod protocol over an
aclgo Store: a permission-evaluation engine modeled on chmod, with
role-aware ACL inheritance over a resource tree.`,
		SilenceUsage: true,
	}

	registerGlobalFlags(cmd)

	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSugetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newSusetCmd())
	cmd.AddCommand(newTestCmd())
	cmd.AddCommand(newChmodCmd())
	cmd.AddCommand(newDescribeCmd())

	return cmd
}
