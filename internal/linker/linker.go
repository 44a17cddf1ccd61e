// Package linker composes the rewriting engine and the heading annotator
// into the document transformer applied to each changelog file.
package linker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/rstlinker/internal/config"
	"git.home.luguber.info/inful/rstlinker/internal/heading"
	"git.home.luguber.info/inful/rstlinker/internal/logfields"
	"git.home.luguber.info/inful/rstlinker/internal/rewrite"
	"git.home.luguber.info/inful/rstlinker/internal/rules"
)

// Linker transforms documents according to one validated configuration and
// one pre-resolved tag date mapping. Construct once per build invocation;
// safe to reuse across documents.
type Linker struct {
	rules     []*rules.Rule
	annotator *heading.Annotator
	dates     map[string]time.Time
}

// New compiles the configuration into a transformer. A nil or empty dates
// map is valid: link rewriting still runs and heading annotation becomes a
// no-op, which is the mandated degradation when the repository is
// unavailable.
func New(cfg *config.Config, dates map[string]time.Time) (*Linker, error) {
	compiled, err := rules.CompileAll(cfg.Rules, cfg.Using)
	if err != nil {
		return nil, err
	}
	annotator, err := heading.New(cfg.Headings.Pattern, cfg.Headings.DateFormat, cfg.Headings.TagPrefix)
	if err != nil {
		return nil, err
	}
	return &Linker{rules: compiled, annotator: annotator, dates: dates}, nil
}

// Transform rewrites link patterns and then annotates version headings,
// returning the new text and any per-match rendering warnings. The input is
// never mutated. Annotation runs second so it scans already-rewritten text
// and cannot be fooled into matching inside generated hyperlink markup.
func (l *Linker) Transform(text string) (string, []rewrite.Warning) {
	out, warnings := rewrite.Apply(l.rules, text)
	out = l.annotator.Annotate(out, l.dates)
	return out, warnings
}

// ProcessFile transforms src and writes the result to dst, preserving the
// source file's permission bits. Warnings are logged, not fatal.
func (l *Linker) ProcessFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	start := time.Now()
	out, warnings := l.Transform(string(data))
	for _, w := range warnings {
		slog.Warn("Match skipped during rewrite",
			logfields.File(src),
			logfields.Rule(w.Rule),
			logfields.Error(w.Err))
	}
	slog.Debug("Document transformed",
		logfields.File(src),
		logfields.Count(len(warnings)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	if err := os.WriteFile(dst, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// ExtendName derives the default output name for a transformed document:
// "CHANGES.rst" becomes "CHANGES (links).rst". Matches the naming convention
// of the tooling this replaces, so downstream docs pipelines keep working.
func ExtendName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + " (links)" + ext
}
