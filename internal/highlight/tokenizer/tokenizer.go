// Package tokenizer implements the grammar-driven scanning engine. It
// walks text with a stack of active rule contexts and produces ordered,
// non-overlapping scope-tagged spans. Text no rule matched at the top
// level is left as an implicit gap for later passes.
package tokenizer

import (
	"sort"

	"github.com/dlclark/regexp2"

	"github.com/dhollis/scopelight/internal/highlight/grammar"
)

// Span is a contiguous text range tagged with the scope stack active
// over it. Offsets are rune indices into the input text; End is
// exclusive. Spans are produced in strictly increasing Start order and
// never overlap.
type Span struct {
	Start  int
	End    int
	Scopes []string // outermost first
}

// context is one entry of the active rule stack: a begin/end region
// that has been opened, with its resolved end pattern and the scope
// stack in effect inside it.
type context struct {
	rule   *grammar.Rule
	end    *regexp2.Regexp // nil means the region runs to end of text
	scopes []string
}

// scanner threads the mutable scan state through one Tokenize call.
type scanner struct {
	g     *grammar.Grammar
	runes []rune
	spans []Span
}

// Tokenize scans text against a compiled grammar and returns the
// scope-tagged spans in document order. It is total: a grammar that
// compiled successfully cannot make it fail, and the scan position
// strictly increases, so it always terminates.
func Tokenize(g *grammar.Grammar, text string) []Span {
	s := &scanner{g: g, runes: []rune(text)}
	stack := []*context{{scopes: []string{g.ScopeName}}}
	p := 0
	lastZeroBegin := -1

	for p < len(s.runes) {
		ctx := stack[len(stack)-1]

		source := g.Patterns
		if ctx.rule != nil {
			source = ctx.rule.Patterns
		}
		var candidates []*grammar.Rule
		s.collect(source, make(map[*grammar.Rule]bool), &candidates)

		// Earliest nested match; declaration order breaks ties because
		// only a strictly earlier start replaces the current best.
		var bestRule *grammar.Rule
		var bestMatch *regexp2.Match
		for _, r := range candidates {
			re := r.Match
			if r.Kind == grammar.KindBeginEnd {
				re = r.Begin
			}
			m := find(re, s.runes, p)
			if m == nil {
				continue
			}
			if bestMatch == nil || m.Index < bestMatch.Index {
				bestRule, bestMatch = r, m
			}
		}

		var endMatch *regexp2.Match
		if ctx.rule != nil && ctx.end != nil {
			endMatch = find(ctx.end, s.runes, p)
		}

		// The end pattern is tried before nested patterns by default,
		// so it wins ties at the same offset unless the rule asked for
		// applyEndPatternLast.
		useEnd := false
		if endMatch != nil {
			switch {
			case bestMatch == nil:
				useEnd = true
			case endMatch.Index < bestMatch.Index:
				useEnd = true
			case endMatch.Index == bestMatch.Index && !ctx.rule.ApplyEndPatternLast:
				useEnd = true
			}
		}

		switch {
		case useEnd:
			start, end := endMatch.Index, endMatch.Index+endMatch.Length
			s.flushInterior(ctx, p, start)
			s.emitCaptured(start, end, ctx.scopes, ctx.rule.EndCaptures, endMatch)
			stack = stack[:len(stack)-1]
			p = end
			if end == start {
				// Zero-width end: popping the context is the progress.
				continue
			}

		case bestMatch != nil:
			start, end := bestMatch.Index, bestMatch.Index+bestMatch.Length
			s.flushInterior(ctx, p, start)
			scopes := withScope(ctx.scopes, bestRule.ScopeName)

			if bestRule.Kind == grammar.KindMatch {
				s.emitCaptured(start, end, scopes, bestRule.Captures, bestMatch)
				p = end
				if end == start {
					p = start + 1 // forced advance on a zero-length match
				}
				continue
			}

			// BeginEnd: open a region.
			if end == start && start == lastZeroBegin {
				// A zero-width begin already fired here once; refuse to
				// loop and step past it instead.
				p = start + 1
				continue
			}
			s.emitCaptured(start, end, scopes, bestRule.BeginCaptures, bestMatch)
			endRe, err := bestRule.ResolveEnd(capturedGroups(bestMatch))
			if err != nil {
				endRe = nil
			}
			stack = append(stack, &context{rule: bestRule, end: endRe, scopes: scopes})
			if end == start {
				lastZeroBegin = start
			}
			p = end

		default:
			// Nothing matches in the remaining text. Inside a region
			// the remainder still belongs to that region's scope;
			// at the top level it is an implicit gap.
			if ctx.rule != nil {
				s.emit(p, len(s.runes), ctx.scopes)
			}
			p = len(s.runes)
		}
	}
	return s.spans
}

// collect expands the reachable rules of a context into a flat
// candidate list, resolving includes by lookup. The visited set guards
// against include cycles; repository rules may reference each other
// freely.
func (s *scanner) collect(rules []*grammar.Rule, visited map[*grammar.Rule]bool, out *[]*grammar.Rule) {
	for _, r := range rules {
		if visited[r] {
			continue
		}
		visited[r] = true
		switch r.Kind {
		case grammar.KindInclude:
			switch r.Include {
			case grammar.IncludeSelf, grammar.IncludeBase:
				s.collect(s.g.Patterns, visited, out)
			default:
				if target, ok := s.g.Repository[r.Include[1:]]; ok {
					s.collect([]*grammar.Rule{target}, visited, out)
				}
			}
		case grammar.KindPatterns:
			s.collect(r.Patterns, visited, out)
		default:
			*out = append(*out, r)
		}
	}
}

// flushInterior emits the unmatched stretch [p, start) that precedes a
// match. Inside a begin/end region this text carries the region's scope
// stack; at the top level it stays an implicit gap.
func (s *scanner) flushInterior(ctx *context, p, start int) {
	if ctx.rule != nil && start > p {
		s.emit(p, start, ctx.scopes)
	}
}

// emitCaptured emits spans for one match range, splitting it around
// capture sub-ranges so output spans never overlap. Capture scopes nest
// inside the match's own scope stack; a capture for group 0 extends the
// stack over the whole range. Overlapping capture declarations keep the
// first claim.
func (s *scanner) emitCaptured(start, end int, scopes []string, captures map[int]string, m *regexp2.Match) {
	if start >= end {
		return
	}
	base := scopes
	if zero, ok := captures[0]; ok {
		base = withScope(scopes, zero)
	}

	type capRange struct {
		start, end int
		scope      string
	}
	var ranges []capRange
	for group := 1; group < m.GroupCount(); group++ {
		scope, ok := captures[group]
		if !ok {
			continue
		}
		grp := m.GroupByNumber(group)
		if grp == nil || len(grp.Captures) == 0 {
			continue
		}
		c := grp.Captures[len(grp.Captures)-1]
		cs, ce := c.Index, c.Index+c.Length
		if cs < start {
			cs = start
		}
		if ce > end {
			ce = end
		}
		if ce <= cs {
			continue
		}
		ranges = append(ranges, capRange{cs, ce, scope})
	}

	if len(ranges) == 0 {
		s.emit(start, end, base)
		return
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	pos := start
	for _, r := range ranges {
		if r.start < pos {
			continue // overlaps an earlier capture, first claim wins
		}
		if r.start > pos {
			s.emit(pos, r.start, base)
		}
		s.emit(r.start, r.end, withScope(base, r.scope))
		pos = r.end
	}
	if pos < end {
		s.emit(pos, end, base)
	}
}

// emit records one span, copying the scope stack so later stack growth
// cannot alias it.
func (s *scanner) emit(start, end int, scopes []string) {
	if start >= end {
		return
	}
	owned := make([]string, len(scopes))
	copy(owned, scopes)
	s.spans = append(s.spans, Span{Start: start, End: end, Scopes: owned})
}

// withScope returns scopes extended by name, or scopes unchanged when
// name is empty. Always a fresh slice when extended.
func withScope(scopes []string, name string) []string {
	if name == "" {
		return scopes
	}
	out := make([]string, len(scopes), len(scopes)+1)
	copy(out, scopes)
	return append(out, name)
}

// capturedGroups extracts the matched text of every group, indexed by
// group number, for backreference substitution into end patterns.
func capturedGroups(m *regexp2.Match) []string {
	captured := make([]string, m.GroupCount())
	for i := 0; i < m.GroupCount(); i++ {
		if grp := m.GroupByNumber(i); grp != nil && len(grp.Captures) > 0 {
			captured[i] = grp.String()
		}
	}
	return captured
}

// find runs a pattern starting at the given rune offset, returning the
// earliest match at or after it. Regex engine errors (only timeouts are
// possible here) are treated as no match.
func find(re *regexp2.Regexp, runes []rune, at int) *regexp2.Match {
	if re == nil {
		return nil
	}
	m, err := re.FindRunesMatchStartingAt(runes, at)
	if err != nil {
		return nil
	}
	return m
}
