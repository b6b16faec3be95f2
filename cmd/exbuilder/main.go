package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/exbuilder/cmd/exbuilder/commands"
	"git.home.luguber.info/inful/exbuilder/internal/version"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("exbuilder"),
		kong.Description("Build browsable HTML pages from a repository of example source files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Full()},
	)
	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
