// Package heading annotates version-heading lines in a changelog with
// release dates resolved from tag metadata.
package heading

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ncruces/go-strftime"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
)

// versionGroup is the named capture group the heading pattern uses to mark
// the version token. Patterns without it fall back to the first group.
const versionGroup = "version"

// annotationRe recognizes a trailing " (date)" annotation a previous run may
// have produced. The captured text must also parse with the configured date
// format before it is treated as ours.
var annotationRe = regexp.MustCompile(` \(([^()]+)\)$`)

// Adornment characters docutils accepts for section underlines. The common
// subset is enough here; exotic adornments simply go unrepaired.
const adornments = "=-`:'\"~^_*+#."

// Annotator rewrites matching heading lines, appending or replacing a date
// annotation. Immutable after New.
type Annotator struct {
	re     *regexp.Regexp
	group  int
	layout string
	prefix string
}

// New compiles the heading pattern and strftime date format. The pattern
// must contain a capture group for the version token, either named
// "version" or the first group. Malformed input is an invalid-rule error.
func New(pattern, dateFormat, prefix string) (*Annotator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, linkerrs.WrapInvalidRule(err, "unparsable heading pattern").
			WithContext("pattern", pattern)
	}
	if re.NumSubexp() == 0 {
		return nil, linkerrs.InvalidRule("heading pattern has no capture group for the version token").
			WithContext("pattern", pattern)
	}
	group := 1
	for i, name := range re.SubexpNames() {
		if name == versionGroup {
			group = i
			break
		}
	}
	layout, err := strftime.Layout(dateFormat)
	if err != nil {
		return nil, linkerrs.WrapInvalidRule(err, "unsupported date format").
			WithContext("date_format", dateFormat)
	}
	return &Annotator{re: re, group: group, layout: layout, prefix: prefix}, nil
}

// Annotate scans text line by line and rewrites every heading line whose
// version token is present in dates. Tokens are normalized with the same
// prefix strip the tag resolver applies, then matched exactly; unknown
// versions (typically unreleased ones) are left alone. Pure function.
func (a *Annotator) Annotate(text string, dates map[string]time.Time) string {
	lines := strings.SplitAfter(text, "\n")
	for i, raw := range lines {
		line, eol := splitEOL(raw)

		// Strip any annotation from a previous run first, so the heading
		// pattern sees the bare heading and the date gets overwritten
		// rather than stacked.
		base := a.stripAnnotation(line)

		loc := a.re.FindStringSubmatchIndex(base)
		if loc == nil {
			continue
		}
		start, end := loc[2*a.group], loc[2*a.group+1]
		if start < 0 || end < 0 {
			continue
		}
		token := base[start:end]
		if a.prefix != "" {
			token = strings.TrimPrefix(token, a.prefix)
		}
		when, ok := dates[token]
		if !ok {
			continue
		}

		annotated := base + " (" + when.Format(a.layout) + ")"
		if annotated == line {
			continue
		}
		lines[i] = annotated + eol
		if i+1 < len(lines) {
			lines[i+1] = repairUnderline(lines[i+1], base, annotated)
		}
	}
	return strings.Join(lines, "")
}

// stripAnnotation removes a trailing annotation if the parenthesized text
// parses with the configured date format; anything else (e.g. "1.2 (beta)")
// is part of the heading and kept.
func (a *Annotator) stripAnnotation(line string) string {
	m := annotationRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	if _, err := time.Parse(a.layout, m[1]); err != nil {
		return line
	}
	return line[:len(line)-len(m[0])]
}

// repairUnderline resizes an RST adornment underline to cover the annotated
// heading, so appending a date does not leave the section title malformed.
func repairUnderline(raw, heading, annotated string) string {
	ul, eol := splitEOL(raw)
	if utf8.RuneCountInString(ul) < utf8.RuneCountInString(heading) {
		return raw
	}
	r, _ := utf8.DecodeRuneInString(ul)
	if r == utf8.RuneError || !strings.ContainsRune(adornments, r) {
		return raw
	}
	if strings.Count(ul, string(r)) != utf8.RuneCountInString(ul) {
		return raw
	}
	return strings.Repeat(string(r), utf8.RuneCountInString(annotated)) + eol
}

func splitEOL(raw string) (line, eol string) {
	if strings.HasSuffix(raw, "\r\n") {
		return raw[:len(raw)-2], "\r\n"
	}
	if strings.HasSuffix(raw, "\n") {
		return raw[:len(raw)-1], "\n"
	}
	return raw, ""
}
