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

// Command aclctl is a chmod-style command-line front end over the aclgo
// executor: get/set/suget/suset/test/chmod, plus a describe introspection
// command, against a mem or json-backed Store.
package main

import (
	"os"

	"github.com/cs3org/aclgo/pkg/alog"
)

var log = alog.New("aclctl")

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("aclctl: command failed")
		os.Exit(1)
	}
}
