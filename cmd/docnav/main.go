package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/cmd/docnav/commands"
	"git.home.luguber.info/inful/docnav/internal/config"
	derrors "git.home.luguber.info/inful/docnav/internal/errors"
	"git.home.luguber.info/inful/docnav/internal/version"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		slog.Warn("Failed to load .env files", "error", err)
	}

	var cli commands.CLI
	vars := commands.Vars()
	vars["version"] = version.String()
	parser := kong.Parse(&cli,
		kong.Name("docnav"),
		kong.Description("Generate navigation pages for a tree of pre-built documentation sites."),
		kong.UsageOnError(),
		vars,
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	if err := parser.Run(global, &cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
