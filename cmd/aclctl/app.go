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
	"time"

	"github.com/spf13/cobra"

	"github.com/cs3org/aclgo/pkg/aclcfg"
	"github.com/cs3org/aclgo/pkg/evaluator"
	"github.com/cs3org/aclgo/pkg/executor"
	"github.com/cs3org/aclgo/pkg/resourcetree"
	"github.com/cs3org/aclgo/pkg/store"
	"github.com/cs3org/aclgo/pkg/store/jsonstore"
	"github.com/cs3org/aclgo/pkg/store/memstore"
)

// globalFlags holds the persistent flags every subcommand reads to build
// its app.
type globalFlags struct {
	storeKind string
	storePath string
	cfgPath   string
	cacheTTL  time.Duration
	format    string
}

var flags globalFlags

func registerGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flags.storeKind, "store", "mem", "persistence backend: mem or json")
	cmd.PersistentFlags().StringVar(&flags.storePath, "store-path", "acl.json", "path to the json store document")
	cmd.PersistentFlags().StringVar(&flags.cfgPath, "config", "", "path to a TOML aclcfg document")
	cmd.PersistentFlags().DurationVar(&flags.cacheTTL, "test-cache-ttl", 0, "ttl for the executor's test() memo cache, 0 disables it")
	cmd.PersistentFlags().StringVar(&flags.format, "format", "text", "output format: text or yaml")
}

// app bundles the wiring every subcommand needs: a loaded Store, an
// Evaluator over it, and the Executor front end.
type app struct {
	cfg   *aclcfg.Config
	st    store.Store
	eval  *evaluator.Evaluator
	exec  *executor.Executor
	jsons *jsonstore.Store // non-nil only when storeKind == "json", for Save on exit
}

// newApp loads configuration and the selected store, wiring an Evaluator
// and Executor over it the same way for every subcommand.
func newApp() (*app, error) {
	cfg := aclcfg.Default()
	if flags.cfgPath != "" {
		loaded, err := aclcfg.LoadTOML(flags.cfgPath)
		if err != nil {
			return nil, fmt.Errorf("aclctl: error loading config: %w", err)
		}
		cfg = loaded
	}

	rtCfg := resourcetree.Config{Separator: cfg.NodeSeparator}

	var st store.Store
	var js *jsonstore.Store
	switch flags.storeKind {
	case "mem":
		st = memstore.New(rtCfg)
	case "json":
		js = jsonstore.New(rtCfg, flags.storePath)
		if err := js.Load(); err != nil {
			return nil, fmt.Errorf("aclctl: error loading store: %w", err)
		}
		st = js
	default:
		return nil, fmt.Errorf("aclctl: unknown --store %q, want mem or json", flags.storeKind)
	}

	eval := evaluator.New(st, nil)
	exec := executor.New(st, eval, flags.cacheTTL, cfg.DefaultDirMask, cfg.DefaultFileMask)

	return &app{cfg: cfg, st: st, eval: eval, exec: exec, jsons: js}, nil
}

// persist saves the json store back to disk when that backend is in use;
// a no-op for mem, which never outlives the process.
func (a *app) persist() error {
	if a.jsons == nil {
		return nil
	}
	return a.jsons.Save()
}
