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

// Package resourcetree implements the hierarchical, id-addressed resource
// forest that ACLs and the evaluator walk. A node's id is the
// separator-joined path from a root of the forest.
package resourcetree

import (
	"strings"

	"github.com/armon/go-radix"
	"github.com/gobwas/glob"

	"github.com/cs3org/aclgo/pkg/aclerrors"
)

// InheritMode governs how a node's allow bits combine with what its
// ancestors already contributed.
type InheritMode int

const (
	// INHERIT passes the ancestor mask through unchanged; this node
	// contributes nothing of its own.
	INHERIT InheritMode = iota
	// MERGE unions this node's allow bits into the running mask.
	MERGE
	// OVERRIDE replaces the running mask with this node's allow bits.
	OVERRIDE
)

// String renders the mode for logging/debugging.
func (m InheritMode) String() string {
	switch m {
	case INHERIT:
		return "INHERIT"
	case MERGE:
		return "MERGE"
	case OVERRIDE:
		return "OVERRIDE"
	default:
		return "UNKNOWN"
	}
}

// Node types recognised by DefaultMaskFor; callers may use any string for
// Type, these two are merely the ones the default-mask convenience knows.
const (
	TypeDir  = "DIR"
	TypeFile = "FILE"
)

// ResourceNode is a single addressable point in the resource forest.
type ResourceNode struct {
	ID          string
	Name        string
	ParentID    string // empty means root
	InheritMode InheritMode
	Type        string
}

// HasParent reports whether this node is not a forest root.
func (n ResourceNode) HasParent() bool { return n.ParentID != "" }

// Config carries the separator used to join/split resource ids, mirroring
// the NODE_SEPARATOR option in aclcfg.Config.
type Config struct {
	Separator string
}

// DefaultConfig matches aclcfg's default separator.
func DefaultConfig() Config { return Config{Separator: "."} }

// Split normalises and splits path into segments, stripping any leading
// or trailing separator.
func (c Config) Split(path string) []string {
	trimmed := strings.Trim(path, c.sep())
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, c.sep())
}

// Join rebuilds a path id from segments.
func (c Config) Join(segments []string) string {
	return strings.Join(segments, c.sep())
}

func (c Config) sep() string {
	if c.Separator == "" {
		return "."
	}
	return c.Separator
}

// DefaultMaskFor returns the seed default mask for a brand new terminal
// resource of the given type, per DEFAULT_DIR_MASK/DEFAULT_FILE_MASK.
// Unknown types fall back to dirMask.
func DefaultMaskFor(nodeType string, dirMask, fileMask uint8) uint8 {
	if nodeType == TypeFile {
		return fileMask
	}
	return dirMask
}

// Lookup is the minimal read surface Chain needs from a backing
// store: fetch an existing node by id, or ok=false if absent.
type Lookup func(id string) (ResourceNode, bool)

// Chain returns [self, parent, ..., root] by walking ParentID via get.
// The caller is expected to have already confirmed id exists.
func Chain(id string, get Lookup) ([]ResourceNode, error) {
	var chain []ResourceNode
	cur := id
	seen := map[string]bool{}
	for cur != "" {
		if seen[cur] {
			break // malformed cyclic parent chain; stop rather than loop forever
		}
		seen[cur] = true
		n, ok := get(cur)
		if !ok {
			return nil, &aclerrors.ResourceNotFound{Path: cur}
		}
		chain = append(chain, n)
		cur = n.ParentID
	}
	return chain, nil
}

// Reversed returns chain reordered root-first, leaf-last, which is the
// order the evaluator folds over (see pkg/evaluator).
func Reversed(chain []ResourceNode) []ResourceNode {
	out := make([]ResourceNode, len(chain))
	for i, n := range chain {
		out[len(chain)-1-i] = n
	}
	return out
}

// Index is a radix-tree-backed id -> ResourceNode map giving ordered,
// prefix-aware storage for the forest. It is the index type embedded by
// the memstore and jsonstore backends; it is not itself a Store.
type Index struct {
	tree *radix.Tree
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{tree: radix.New()}
}

// Get returns the node at id.
func (idx *Index) Get(id string) (ResourceNode, bool) {
	v, ok := idx.tree.Get(id)
	if !ok {
		return ResourceNode{}, false
	}
	return v.(ResourceNode), true
}

// Put inserts or replaces the node at id.
func (idx *Index) Put(n ResourceNode) {
	idx.tree.Insert(n.ID, n)
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int { return idx.tree.Len() }

// All returns every node in the index, in radix (lexical-by-path) order.
func (idx *Index) All() []ResourceNode {
	out := make([]ResourceNode, 0, idx.tree.Len())
	idx.tree.Walk(func(_ string, v interface{}) bool {
		out = append(out, v.(ResourceNode))
		return false
	})
	return out
}

// Define materialises path into the index: every missing ancestor becomes
// a DIR/MERGE node, and the terminal is created (or updated, if it
// already exists) with mode/typ -- a nil mode means the default
// OVERRIDE; pass a non-nil mode to set it explicitly. Re-encountering an existing node as an
// ancestor of a longer path forces it back to DIR/MERGE.
func (idx *Index) Define(cfg Config, path string, mode *InheritMode, typ string) ResourceNode {
	segments := cfg.Split(path)
	var parentID string
	var node ResourceNode

	for i, seg := range segments {
		id := cfg.Join(segments[:i+1])
		isTerminal := i == len(segments)-1

		existing, ok := idx.Get(id)
		switch {
		case !ok && isTerminal:
			m := OVERRIDE
			if mode != nil {
				m = *mode
			}
			t := typ
			if t == "" {
				t = TypeFile
			}
			node = ResourceNode{ID: id, Name: seg, ParentID: parentID, InheritMode: m, Type: t}
			idx.Put(node)
		case !ok && !isTerminal:
			node = ResourceNode{ID: id, Name: seg, ParentID: parentID, InheritMode: MERGE, Type: TypeDir}
			idx.Put(node)
		case ok && isTerminal:
			if mode != nil {
				existing.InheritMode = *mode
			}
			if typ != "" {
				existing.Type = typ
			}
			idx.Put(existing)
			node = existing
		default: // ok && !isTerminal: re-encountered as an interior node
			existing.InheritMode = MERGE
			existing.Type = TypeDir
			idx.Put(existing)
			node = existing
		}
		parentID = id
	}
	return node
}

// Glob compiles pattern (shell-style *, ?, [...]) and returns every
// indexed node whose id matches.
func (idx *Index) Glob(pattern string) ([]ResourceNode, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, &aclerrors.InvalidMaskExpression{Expr: pattern}
	}
	var out []ResourceNode
	for _, n := range idx.All() {
		if g.Match(n.ID) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Match returns every indexed node for which predicate returns true.
func (idx *Index) Match(predicate func(ResourceNode) bool) []ResourceNode {
	var out []ResourceNode
	for _, n := range idx.All() {
		if predicate(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsPattern reports whether path contains glob metacharacters, the
// signal the executor uses to decide between a single-resource and a
// pattern-form operation.
func IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
