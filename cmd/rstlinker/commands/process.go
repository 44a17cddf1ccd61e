package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/rstlinker/internal/config"
	"git.home.luguber.info/inful/rstlinker/internal/linker"
	"git.home.luguber.info/inful/rstlinker/internal/logfields"
)

// ProcessCmd implements the 'process' command.
type ProcessCmd struct {
	Files   []string `arg:"" help:"RST files to transform" type:"existingfile"`
	Output  string   `short:"o" help:"Directory to write transformed files into (keeps source names)"`
	InPlace bool     `short:"i" help:"Overwrite the source files"`
	NoDates bool     `help:"Skip heading date annotation (no repository access)"`
}

// Run executes the process command.
func (p *ProcessCmd) Run(_ *Global, root *CLI) error {
	if p.InPlace && p.Output != "" {
		return errors.New("--in-place and --output are mutually exclusive")
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	l, err := buildLinker(cfg, p.NoDates)
	if err != nil {
		return err
	}

	for _, src := range p.Files {
		dst := p.destination(src)
		if err := l.ProcessFile(src, dst); err != nil {
			return fmt.Errorf("processing %s: %w", src, err)
		}
		slog.Info("Document processed", logfields.File(src), logfields.Path(dst))
	}
	return nil
}

func (p *ProcessCmd) destination(src string) string {
	switch {
	case p.InPlace:
		return src
	case p.Output != "":
		return filepath.Join(p.Output, filepath.Base(src))
	default:
		return linker.ExtendName(src)
	}
}

func buildLinker(cfg *config.Config, noDates bool) (*linker.Linker, error) {
	if noDates {
		return linker.New(cfg, nil)
	}
	return linker.New(cfg, resolveDates(cfg))
}
