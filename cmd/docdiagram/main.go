package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docdiagram/cmd/docdiagram/commands"
	"git.home.luguber.info/inful/docdiagram/internal/config"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	global := &commands.Global{}
	parser, err := kong.New(cli,
		kong.Name("docdiagram"),
		kong.Description("Render PlantUML diagram blocks in documents (pandoc filter and Markdown rewriter)."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String(), "config_file": config.DefaultFile},
		kong.Bind(global),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return ferrors.NewCLIErrorAdapter(false, nil).Handle(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		if _, ok := ferrors.AsClassified(err); !ok {
			parser.FatalIfErrorf(err)
		}
		return ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).Handle(err)
	}

	err = kctx.Run(cli)
	return ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).Handle(err)
}
