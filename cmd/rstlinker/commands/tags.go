package commands

import (
	"fmt"
	"sort"

	"git.home.luguber.info/inful/rstlinker/internal/config"
	"git.home.luguber.info/inful/rstlinker/internal/git"
)

// TagsCmd implements the 'tags' command: resolve the configured repository's
// tags and print the version-label -> date mapping the annotator would use.
type TagsCmd struct {
	Repository string `short:"r" help:"Repository path (overrides configuration)"`
}

// Run executes the tags command.
func (t *TagsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	path := cfg.Repository
	if t.Repository != "" {
		path = t.Repository
	}

	repo, err := git.Open(path)
	if err != nil {
		return err
	}
	dates, err := git.Dates(repo, cfg.Headings.TagPrefix)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(dates))
	for label := range dates {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("%s\t%s\n", label, dates[label].Format("2006-01-02"))
	}
	return nil
}
