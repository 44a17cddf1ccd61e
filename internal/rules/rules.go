// Package rules compiles link-rewriting rule definitions into immutable
// matchers with validated replacement templates.
//
// A rule pairs a matcher (regular expression or literal substring) with a
// template. Templates reference numeric capture groups as \0..\9 (\0 is the
// whole match) and named capture groups or substitution variables as {name}.
// All references are validated at compile time; an unresolved reference is an
// invalid-rule error, never a silent pass-through.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
)

// Spec is a single rule definition as it appears in configuration.
// Exactly one of Pattern or Literal must be set.
type Spec struct {
	Pattern  string            `yaml:"pattern,omitempty"`
	Literal  string            `yaml:"literal,omitempty"`
	Template string            `yaml:"template"`
	Vars     map[string]string `yaml:"vars,omitempty"`
}

// Rule is a compiled, immutable rule. Construct via Compile; never mutate.
type Rule struct {
	re       *regexp.Regexp
	segments []segment
	vars     map[string]string
	groups   map[string]int
	source   string
}

type segKind int

const (
	segText segKind = iota
	segGroup
	segName
)

// segment is one parsed piece of a template: literal text, a numeric group
// reference, or a named reference (group or variable).
type segment struct {
	kind  segKind
	text  string
	group int
	name  string
}

// Compile validates a rule definition against the global substitution
// variables and returns the compiled rule. Globals are merged over the
// rule's own vars (globals win, matching the namespace layering of the
// definition format this package inherits).
func Compile(spec Spec, globals map[string]string) (*Rule, error) {
	source, re, err := compileMatcher(spec)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(spec.Vars)+len(globals))
	for k, v := range spec.Vars {
		merged[k] = v
	}
	for k, v := range globals {
		merged[k] = v
	}

	groups := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = i
		}
	}

	if strings.TrimSpace(spec.Template) == "" {
		return nil, linkerrs.InvalidRule("rule template is empty").WithContext("matcher", source)
	}
	segments, err := parseTemplate(spec.Template, re.NumSubexp(), groups, merged)
	if err != nil {
		return nil, err
	}

	return &Rule{
		re:       re,
		segments: segments,
		vars:     merged,
		groups:   groups,
		source:   source,
	}, nil
}

func compileMatcher(spec Spec) (string, *regexp.Regexp, error) {
	switch {
	case spec.Pattern != "" && spec.Literal != "":
		return "", nil, linkerrs.InvalidRule("rule declares both pattern and literal").
			WithContext("pattern", spec.Pattern).
			WithContext("literal", spec.Literal)
	case spec.Pattern != "":
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return "", nil, linkerrs.WrapInvalidRule(err, "unparsable rule pattern").
				WithContext("pattern", spec.Pattern)
		}
		return spec.Pattern, re, nil
	case spec.Literal != "":
		// Literals go through the same regexp machinery so the engine only
		// deals with one matcher kind.
		return spec.Literal, regexp.MustCompile(regexp.QuoteMeta(spec.Literal)), nil
	default:
		return "", nil, linkerrs.InvalidRule("rule declares neither pattern nor literal")
	}
}

// CompileAll compiles an ordered list of rule definitions, preserving order.
// The first invalid definition aborts with its index recorded in context.
func CompileAll(specs []Spec, globals map[string]string) ([]*Rule, error) {
	compiled := make([]*Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := Compile(spec, globals)
		if err != nil {
			var le *linkerrs.LinkerError
			if errors.As(err, &le) {
				return nil, le.WithContext("rule", i)
			}
			return nil, err
		}
		compiled = append(compiled, r)
	}
	return compiled, nil
}

// Source returns the matcher as written in configuration, for logging.
func (r *Rule) Source() string { return r.source }

// FindAll returns the leftmost non-overlapping submatch index pairs of the
// matcher in text, in the format of regexp.FindAllStringSubmatchIndex.
func (r *Rule) FindAll(text string) [][]int {
	return r.re.FindAllStringSubmatchIndex(text, -1)
}

// Render expands the rule's template for one match. loc is a submatch index
// slice for text, as returned by FindAll. A referenced capture group that did
// not participate in this particular match yields a template-substitution
// error; the caller keeps the original span and continues.
func (r *Rule) Render(text string, loc []int) (string, error) {
	var b strings.Builder
	for _, seg := range r.segments {
		switch seg.kind {
		case segText:
			b.WriteString(seg.text)
		case segGroup:
			v, ok := groupValue(text, loc, seg.group)
			if !ok {
				return "", linkerrs.TemplateSubstitution(
					fmt.Sprintf("capture group %d did not participate in match", seg.group)).
					WithContext("matcher", r.source).
					WithContext("match", text[loc[0]:loc[1]])
			}
			b.WriteString(v)
		case segName:
			// Variables shadow same-named capture groups; this mirrors the
			// namespace layering of the definition format.
			if v, ok := r.vars[seg.name]; ok {
				b.WriteString(v)
				break
			}
			idx := r.groups[seg.name]
			v, ok := groupValue(text, loc, idx)
			if !ok {
				return "", linkerrs.TemplateSubstitution(
					fmt.Sprintf("named group %q did not participate in match", seg.name)).
					WithContext("matcher", r.source).
					WithContext("match", text[loc[0]:loc[1]])
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}

func groupValue(text string, loc []int, n int) (string, bool) {
	if 2*n+1 >= len(loc) {
		return "", false
	}
	start, end := loc[2*n], loc[2*n+1]
	if start < 0 || end < 0 {
		return "", false
	}
	return text[start:end], true
}
