package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/rstlinker/cmd/rstlinker/commands"
	"git.home.luguber.info/inful/rstlinker/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("rstlinker"),
		kong.Description("Add hyperlinks and release dates to RST changelogs."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
