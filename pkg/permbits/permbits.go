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

// Package permbits implements the three-bit permission set that underlies
// every allow/deny mask in aclgo, and the chmod-style expression grammar
// used to parse and render it.
package permbits

import (
	"strconv"
	"strings"

	"github.com/cs3org/aclgo/pkg/aclerrors"
)

// Permission is a bitmask over {VISIT, MODIFY, AVAILABLE}.
type Permission uint8

const (
	// AVAILABLE: on a leaf, the resource is usable; on an interior node,
	// children are usable by default.
	AVAILABLE Permission = 1 << iota
	// MODIFY: on a leaf, permission to change content; on an interior
	// node, permission to change children's ACLs.
	MODIFY
	// VISIT: on a leaf, permission to read state; on an interior node,
	// permission to see children.
	VISIT
)

// None is the empty permission set.
const None Permission = 0

// All is the full permission set, value 7.
const All Permission = VISIT | MODIFY | AVAILABLE

// Has reports whether p has every bit in required set.
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

// String renders p as a three-character vma/- glyph string, e.g. "vm-".
func (p Permission) String() string {
	var b strings.Builder
	if p.Has(VISIT) {
		b.WriteByte('v')
	} else {
		b.WriteByte('-')
	}
	if p.Has(MODIFY) {
		b.WriteByte('m')
	} else {
		b.WriteByte('-')
	}
	if p.Has(AVAILABLE) {
		b.WriteByte('a')
	} else {
		b.WriteByte('-')
	}
	return b.String()
}

// glyphBits maps every accepted single-character alias to its bit.
var glyphBits = map[byte]Permission{
	'v': VISIT, 'r': VISIT,
	'm': MODIFY, 'w': MODIFY,
	'a': AVAILABLE, 'x': AVAILABLE,
}

// ParseMask parses a bare mask token: a numeric literal 0..7, a glyph
// sequence using v/m/a or the r/w/x aliases (order-insensitive, '-'
// ignored as a placeholder), or "*" meaning All.
func ParseMask(s string) (Permission, error) {
	if s == "*" {
		return All, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 7 {
			return 0, &aclerrors.InvalidMaskExpression{Expr: s}
		}
		return Permission(n), nil
	}

	var p Permission
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			continue
		}
		bit, ok := glyphBits[c]
		if !ok {
			return 0, &aclerrors.InvalidMaskExpression{Expr: s}
		}
		p |= bit
	}
	return p, nil
}

// Op is a chmod-style mutation operator.
type Op byte

const (
	// OpSet replaces the mask outright ("=").
	OpSet Op = '='
	// OpAdd unions the mask in ("+").
	OpAdd Op = '+'
	// OpSub clears the mask bits out ("-").
	OpSub Op = '-'
)

// Apply combines old and new according to op. Returns InvalidOp for any
// operator other than =, +, -.
func Apply(op Op, old, new Permission) (Permission, error) {
	switch op {
	case OpSet:
		return new, nil
	case OpAdd:
		return old | new, nil
	case OpSub:
		return old &^ new, nil
	default:
		return 0, &aclerrors.InvalidOp{Op: string(op)}
	}
}

// Expr is a parsed chmod-style expression: [target][op]flags.
type Expr struct {
	Deny bool
	Op   Op
	Mask Permission
}

// ParseExpr parses the grammar:
//
//	expr   := [target] [op] flags
//	target := 'a' (allow, default) | 'd' (deny)
//	op     := '=' (default) | '+' | '-'
//	flags  := digit(0-7) | '*' | [vmarwx-]+
//
// A single-character expr is always read as a bare flags token, never as
// a target letter: this is the one case where "target then op then
// flags" is ambiguous ('a' is both the allow target and the AVAILABLE
// glyph), and the grammar resolves it in favor of flags.
func ParseExpr(expr string) (Expr, error) {
	if expr == "" {
		return Expr{}, &aclerrors.InvalidMaskExpression{Expr: expr}
	}

	out := Expr{Op: OpSet}

	if len(expr) == 1 {
		mask, err := ParseMask(expr)
		if err != nil {
			return Expr{}, &aclerrors.InvalidMaskExpression{Expr: expr}
		}
		out.Mask = mask
		return out, nil
	}

	s := expr
	if s[0] == 'a' || s[0] == 'd' {
		out.Deny = s[0] == 'd'
		s = s[1:]
	}

	if len(s) > 0 {
		switch s[0] {
		case '=', '+', '-':
			out.Op = Op(s[0])
			s = s[1:]
		}
	}

	if s == "" {
		return Expr{}, &aclerrors.InvalidMaskExpression{Expr: expr}
	}

	mask, err := ParseMask(s)
	if err != nil {
		return Expr{}, &aclerrors.InvalidMaskExpression{Expr: expr}
	}
	out.Mask = mask
	return out, nil
}
