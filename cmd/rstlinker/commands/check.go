package commands

import (
	"fmt"

	"git.home.luguber.info/inful/rstlinker/internal/config"
)

// CheckCmd implements the 'check' command: load and validate the
// configuration, compiling every rule, and report. Exit status is the
// contract; CI hooks run this before a docs build.
type CheckCmd struct{}

// Run executes the check command.
func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d rule(s) OK, heading pattern %q\n", root.Config, len(cfg.Rules), cfg.Headings.Pattern)
	return nil
}
