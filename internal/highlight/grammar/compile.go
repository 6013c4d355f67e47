package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/tidwall/gjson"
)

// Include reference targets with special meaning.
const (
	IncludeSelf = "$self"
	IncludeBase = "$base"
)

// Compile parses and validates a TextMate-style grammar definition in
// JSON form. Every regex is compiled and every "#name" include is
// checked against the repository; a grammar that compiles cannot fail
// later during tokenization.
func Compile(data []byte) (*Grammar, error) {
	if !gjson.ValidBytes(data) {
		return nil, &GrammarError{Detail: "malformed JSON document"}
	}
	doc := gjson.ParseBytes(data)

	scope := doc.Get("scopeName").String()
	if scope == "" {
		return nil, &GrammarError{Detail: "missing scopeName"}
	}

	g := &Grammar{
		ScopeName:  scope,
		Repository: make(map[string]*Rule),
	}

	for _, ft := range doc.Get("fileTypes").Array() {
		g.FileTypes = append(g.FileTypes, ft.String())
	}

	var err error
	g.Patterns, err = compilePatterns(scope, doc.Get("patterns"))
	if err != nil {
		return nil, err
	}

	repo := doc.Get("repository")
	if repo.IsObject() {
		repo.ForEach(func(key, value gjson.Result) bool {
			var rule *Rule
			rule, err = compileRule(scope, value)
			if err != nil {
				return false
			}
			g.Repository[key.String()] = rule
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	if err := validateIncludes(g); err != nil {
		return nil, err
	}
	return g, nil
}

// CompileString is Compile for string input.
func CompileString(data string) (*Grammar, error) {
	return Compile([]byte(data))
}

// compilePatterns compiles an ordered pattern list.
func compilePatterns(scope string, patterns gjson.Result) ([]*Rule, error) {
	if !patterns.IsArray() {
		return nil, nil
	}
	var rules []*Rule
	for _, p := range patterns.Array() {
		rule, err := compileRule(scope, p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// compileRule compiles a single rule object into its variant.
func compileRule(scope string, node gjson.Result) (*Rule, error) {
	if !node.IsObject() {
		return nil, &GrammarError{Scope: scope, Detail: "rule is not an object"}
	}

	if inc := node.Get("include"); inc.Exists() {
		target := inc.String()
		if target == "" {
			return nil, &GrammarError{Scope: scope, Detail: "empty include target"}
		}
		return &Rule{Kind: KindInclude, Include: target}, nil
	}

	name := node.Get("name").String()

	if begin := node.Get("begin"); begin.Exists() {
		rule := &Rule{
			Kind:                KindBeginEnd,
			ScopeName:           name,
			ApplyEndPatternLast: node.Get("applyEndPatternLast").Bool(),
		}
		var err error
		rule.Begin, err = compileRegex(scope, "begin", begin.String())
		if err != nil {
			return nil, err
		}

		end := node.Get("end")
		if !end.Exists() {
			return nil, &GrammarError{Scope: scope, Detail: fmt.Sprintf("begin pattern %q has no end pattern", begin.String())}
		}
		rule.EndSource = end.String()
		rule.EndHasBackrefs = hasBackrefs(rule.EndSource)
		if rule.EndHasBackrefs {
			// Substituted and recompiled per region entry; validate the
			// shape now with empty captures so bad syntax still fails
			// at load time.
			if _, err := rule.ResolveEnd(nil); err != nil {
				return nil, &GrammarError{Scope: scope, Detail: fmt.Sprintf("invalid end pattern %q", rule.EndSource), Err: err}
			}
		} else {
			rule.End, err = compileRegex(scope, "end", rule.EndSource)
			if err != nil {
				return nil, err
			}
		}

		rule.BeginCaptures, err = compileCaptures(scope, node.Get("beginCaptures"))
		if err != nil {
			return nil, err
		}
		rule.EndCaptures, err = compileCaptures(scope, node.Get("endCaptures"))
		if err != nil {
			return nil, err
		}
		// Plain "captures" doubles for both begin and end when the
		// specific keys are absent, per the TextMate convention.
		if caps := node.Get("captures"); caps.Exists() {
			both, err := compileCaptures(scope, caps)
			if err != nil {
				return nil, err
			}
			if rule.BeginCaptures == nil {
				rule.BeginCaptures = both
			}
			if rule.EndCaptures == nil {
				rule.EndCaptures = both
			}
		}

		rule.Patterns, err = compilePatterns(scope, node.Get("patterns"))
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	if match := node.Get("match"); match.Exists() {
		rule := &Rule{Kind: KindMatch, ScopeName: name}
		var err error
		rule.Match, err = compileRegex(scope, "match", match.String())
		if err != nil {
			return nil, err
		}
		rule.Captures, err = compileCaptures(scope, node.Get("captures"))
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	// A bare pattern-list rule: just a container of alternatives.
	if patterns := node.Get("patterns"); patterns.Exists() {
		nested, err := compilePatterns(scope, patterns)
		if err != nil {
			return nil, err
		}
		return &Rule{Kind: KindPatterns, Patterns: nested, ScopeName: name}, nil
	}

	return nil, &GrammarError{Scope: scope, Detail: "rule has no match, begin, include, or patterns"}
}

// compileCaptures parses a captures object mapping group numbers to
// scope names.
func compileCaptures(scope string, node gjson.Result) (map[int]string, error) {
	if !node.IsObject() {
		return nil, nil
	}
	captures := make(map[int]string)
	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		var group int
		group, err = strconv.Atoi(key.String())
		if err != nil || group < 0 {
			err = &GrammarError{Scope: scope, Detail: fmt.Sprintf("invalid capture group key %q", key.String())}
			return false
		}
		name := value.Get("name").String()
		if name != "" {
			captures[group] = name
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(captures) == 0 {
		return nil, nil
	}
	return captures, nil
}

// compileRegex compiles one pattern source, wrapping failures in a
// GrammarError.
func compileRegex(scope, kind, source string) (*regexp2.Regexp, error) {
	// Multiline so ^ and $ anchor per line, matching how TextMate
	// grammars are written.
	re, err := regexp2.Compile(source, regexp2.Multiline)
	if err != nil {
		return nil, &GrammarError{Scope: scope, Detail: fmt.Sprintf("invalid %s pattern %q", kind, source), Err: err}
	}
	return re, nil
}

// validateIncludes walks every reachable rule and checks that "#name"
// references resolve within the repository. Unresolved includes are a
// load-time error, never a scan-time one.
func validateIncludes(g *Grammar) error {
	seen := make(map[*Rule]bool)
	var walk func(rules []*Rule) error
	walk = func(rules []*Rule) error {
		for _, rule := range rules {
			if seen[rule] {
				continue
			}
			seen[rule] = true
			if rule.Kind == KindInclude {
				if strings.HasPrefix(rule.Include, "#") {
					name := rule.Include[1:]
					if _, ok := g.Repository[name]; !ok {
						return &GrammarError{Scope: g.ScopeName, Detail: fmt.Sprintf("unresolved include %q", rule.Include)}
					}
				} else if rule.Include != IncludeSelf && rule.Include != IncludeBase {
					return &GrammarError{Scope: g.ScopeName, Detail: fmt.Sprintf("unsupported include %q", rule.Include)}
				}
			}
			if err := walk(rule.Patterns); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(g.Patterns); err != nil {
		return err
	}
	for _, rule := range g.Repository {
		if err := walk([]*Rule{rule}); err != nil {
			return err
		}
	}
	return nil
}
