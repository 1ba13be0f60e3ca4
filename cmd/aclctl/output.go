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
	"gopkg.in/yaml.v3"

	"github.com/cs3org/aclgo/pkg/rolegraph"
)

// render prints v to cmd's output, as YAML when --format yaml was
// requested, otherwise via the textual renderer the caller supplies.
func render(cmd *cobra.Command, v any, asText func() string) error {
	if flags.format == "yaml" {
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("aclctl: error rendering yaml: %w", err)
		}
		cmd.Print(string(data))
		return nil
	}
	cmd.Println(asText())
	return nil
}

// parseSubjectKind accepts "user"/"u" or "role"/"r", the same two-letter
// aliasing convention permbits.ParseMask uses for its own glyphs.
func parseSubjectKind(s string) (rolegraph.SubjectKind, error) {
	switch s {
	case "user", "u":
		return rolegraph.USER, nil
	case "role", "r":
		return rolegraph.ROLE, nil
	default:
		return 0, fmt.Errorf("aclctl: unknown subject kind %q, want user or role", s)
	}
}
