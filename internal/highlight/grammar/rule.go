// Package grammar provides the compiled in-memory representation of
// TextMate-style grammars: rules, repositories, and ordered pattern
// lists. Grammars are immutable once compiled.
package grammar

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// RuleKind discriminates the rule variants.
type RuleKind uint8

// Rule variants.
const (
	// KindMatch is a single-regex rule with no nested state.
	KindMatch RuleKind = iota

	// KindBeginEnd opens a region delimited by a begin and an end
	// pattern, with its own nested pattern list.
	KindBeginEnd

	// KindInclude is a reference to another rule, resolved at scan
	// time ("#name", "$self", or "$base").
	KindInclude

	// KindPatterns is a bare container of alternatives, common for
	// repository entries that only group other rules.
	KindPatterns
)

// Rule is one compiled grammar rule. Exactly one variant is populated,
// selected by Kind. Rules are shared and must not be mutated after
// compilation; repository rules may reference each other cyclically, so
// includes are kept as names and resolved by lookup, never inlined.
type Rule struct {
	Kind RuleKind

	// ScopeName is the scope contributed by this rule, if any.
	ScopeName string

	// Match is the compiled pattern for KindMatch.
	Match *regexp2.Regexp

	// Captures maps capture group numbers to sub-scopes (KindMatch).
	Captures map[int]string

	// Begin is the compiled begin pattern for KindBeginEnd.
	Begin *regexp2.Regexp

	// EndSource is the raw end pattern. It may contain backreferences
	// (\1 etc.) to groups captured by Begin; those are substituted and
	// the pattern recompiled each time the region is entered.
	EndSource string

	// End is the pre-compiled end pattern, set only when EndSource has
	// no backreferences.
	End *regexp2.Regexp

	// EndHasBackrefs records whether EndSource references begin
	// captures.
	EndHasBackrefs bool

	// BeginCaptures and EndCaptures map group numbers to sub-scopes
	// for the begin and end match ranges.
	BeginCaptures map[int]string
	EndCaptures   map[int]string

	// Patterns are the nested rules active inside a BeginEnd region,
	// or the alternatives of a pattern-list rule.
	Patterns []*Rule

	// ApplyEndPatternLast defers the end pattern behind nested
	// patterns when both match at the same offset. By default the end
	// pattern is tried first.
	ApplyEndPatternLast bool

	// Include is the reference target for KindInclude.
	Include string
}

// Grammar is a compiled grammar: a root scope, an ordered list of
// top-level rules, and a named repository for includes.
type Grammar struct {
	// ScopeName is the grammar's root scope (e.g. "source.go").
	ScopeName string

	// FileTypes lists file extensions this grammar applies to.
	FileTypes []string

	// Patterns are the top-level rules, tried in declaration order.
	Patterns []*Rule

	// Repository maps rule names to rules referenced by "#name"
	// includes. Held as a map so mutually recursive rules stay
	// representable.
	Repository map[string]*Rule
}

// hasBackrefs reports whether a pattern source references numbered
// capture groups (\1 through \9). Escaped backslashes do not count.
func hasBackrefs(source string) bool {
	for i := 0; i+1 < len(source); i++ {
		if source[i] != '\\' {
			continue
		}
		if source[i+1] >= '1' && source[i+1] <= '9' {
			return true
		}
		i++ // skip the escaped character, whatever it is
	}
	return false
}

// ResolveEnd returns the end pattern for a region entry, substituting
// the given begin captures into any backreferences. Captured text is
// quoted so it matches literally. The capture slice is indexed by
// group number; missing groups substitute as empty.
func (r *Rule) ResolveEnd(captured []string) (*regexp2.Regexp, error) {
	if !r.EndHasBackrefs {
		return r.End, nil
	}
	var b strings.Builder
	src := r.EndSource
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '\\' || i+1 >= len(src) {
			b.WriteByte(c)
			continue
		}
		next := src[i+1]
		i++
		if next >= '1' && next <= '9' {
			group := int(next - '0')
			if group < len(captured) {
				b.WriteString(regexp.QuoteMeta(captured[group]))
			}
			continue
		}
		b.WriteByte(c)
		b.WriteByte(next)
	}
	return regexp2.Compile(b.String(), regexp2.Multiline)
}
