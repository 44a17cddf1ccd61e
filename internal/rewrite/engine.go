// Package rewrite applies ordered pattern rules to a block of text in a
// single two-phase pass: collect all matches from all rules against the
// original text, resolve overlaps by rule order, then splice the surviving
// replacements. Replacements are never re-scanned by later rules, and later
// rules can never clobber an earlier rule's match.
package rewrite

import (
	"sort"

	"git.home.luguber.info/inful/rstlinker/internal/rules"
)

// Span is a resolved, non-overlapping occurrence of a rule's matcher within
// the text, selected after precedence resolution.
type Span struct {
	Start int
	End   int
	Rule  int // index into the ordered rule list

	loc []int // submatch indexes for rendering
}

// Warning reports a match that could not be rendered. The span was left
// verbatim and processing continued.
type Warning struct {
	Rule  int
	Start int
	End   int
	Err   error
}

// Apply rewrites text according to the ordered rule list and returns the new
// text plus warnings for any matches that failed template rendering. Pure
// function of its inputs.
//
// Precedence: for any overlapping byte range, the earlier-ordered rule wins
// and the later rule's match is discarded. Within one rule, matching is
// leftmost-first and non-overlapping. The output is NOT guaranteed to be a
// fixed point: rewritten text may coincidentally match a rule on a second
// application, which is why callers must apply exactly once per document.
func Apply(ruleset []*rules.Rule, text string) (string, []Warning) {
	spans := collect(ruleset, text)

	var warnings []Warning
	edits := make([]Edit, 0, len(spans))
	for _, s := range spans {
		rendered, err := ruleset[s.Rule].Render(text, s.loc)
		if err != nil {
			warnings = append(warnings, Warning{Rule: s.Rule, Start: s.Start, End: s.End, Err: err})
			continue
		}
		edits = append(edits, Edit{Start: s.Start, End: s.End, Replacement: rendered})
	}

	out, err := applyEdits(text, edits)
	if err != nil {
		// collect guarantees non-overlapping in-range spans; an error here is
		// a bug, not an input condition. Fail closed on the original text.
		return text, append(warnings, Warning{Err: err})
	}
	return out, warnings
}

// collect scans the original text with every rule and resolves overlaps.
// Rules are processed in configured order, so a candidate match is kept only
// if it does not overlap a span already claimed by an earlier rule.
func collect(ruleset []*rules.Rule, text string) []Span {
	var kept []Span
	for ri, r := range ruleset {
		for _, loc := range r.FindAll(text) {
			s := Span{Start: loc[0], End: loc[1], Rule: ri, loc: loc}
			if overlapsAny(kept, s) {
				continue
			}
			kept = append(kept, s)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

func overlapsAny(spans []Span, s Span) bool {
	for _, k := range spans {
		if s.Start < k.End && k.Start < s.End {
			return true
		}
	}
	return false
}
