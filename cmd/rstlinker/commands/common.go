package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/rstlinker/internal/config"
	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
	"git.home.luguber.info/inful/rstlinker/internal/git"
	"git.home.luguber.info/inful/rstlinker/internal/logfields"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"links.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Process ProcessCmd `cmd:"" help:"Rewrite link patterns and annotate version headings in RST files"`
	Check   CheckCmd   `cmd:"" help:"Validate the configuration without touching any files"`
	Tags    TagsCmd    `cmd:"" help:"Print the resolved tag date mapping"`
	Watch   WatchCmd   `cmd:"" help:"Reprocess files whenever they change on disk"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// resolveDates opens the configured repository and resolves the tag date
// mapping. An unavailable repository degrades to an empty mapping with a
// warning: heading annotation is skipped but link rewriting must proceed.
func resolveDates(cfg *config.Config) map[string]time.Time {
	repo, err := git.Open(cfg.Repository)
	if err != nil {
		slog.Warn("Repository unavailable, skipping date annotation",
			logfields.Path(cfg.Repository), logfields.Error(err))
		return map[string]time.Time{}
	}
	dates, err := git.Dates(repo, cfg.Headings.TagPrefix)
	if err != nil {
		if linkerrs.IsRepositoryUnavailable(err) {
			slog.Warn("Tag listing failed, skipping date annotation",
				logfields.Path(cfg.Repository), logfields.Error(err))
			return map[string]time.Time{}
		}
		slog.Warn("Tag resolution failed, skipping date annotation", logfields.Error(err))
		return map[string]time.Time{}
	}
	slog.Debug("Resolved tag dates", logfields.Count(len(dates)), logfields.Path(cfg.Repository))
	return dates
}
