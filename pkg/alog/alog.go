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

// Package alog provides per-package zerolog loggers for aclgo, mirroring
// the registration/enable model of the library it is grounded on: callers
// can silence or enable logging per package without touching call sites.
package alog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.CallerSkipFrameCount = 3
}

// Out is the log output writer; tests may redirect it.
var Out io.Writer = os.Stderr

// Mode selects "dev" (console, human readable) or "prod" (json) output.
var Mode = "dev"

var (
	mu       sync.Mutex
	pkgs     []string
	loggers  = map[string]*zerolog.Logger{}
	disabled = zerolog.Nop()
)

// New registers (if not already registered) and returns the logger for pkg.
// Loggers default to enabled; disable with Disable(pkg).
func New(pkg string) *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[pkg]; ok {
		return l
	}

	pkgs = append(pkgs, pkg)
	l := build(pkg)
	loggers[pkg] = l
	return l
}

func build(pkg string) *zerolog.Logger {
	var w io.Writer = Out
	if Mode == "dev" {
		w = zerolog.ConsoleWriter{Out: Out, TimeFormat: "15:04:05"}
	}
	l := zerolog.New(w).With().Timestamp().Str("pkg", pkg).Logger()
	return &l
}

// Disable silences the logger for pkg; logging calls become no-ops.
func Disable(pkg string) {
	mu.Lock()
	defer mu.Unlock()
	loggers[pkg] = &disabled
}

// Enable restores the logger for pkg after a Disable call.
func Enable(pkg string) {
	mu.Lock()
	defer mu.Unlock()
	loggers[pkg] = build(pkg)
}

// ListRegisteredPackages returns the names of packages that have called New.
func ListRegisteredPackages() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(pkgs))
	copy(out, pkgs)
	return out
}
