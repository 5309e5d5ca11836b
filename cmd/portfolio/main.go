package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/bogomolov-fly/portfolio/cmd/portfolio/commands"
	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

// Set by the linker.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("portfolio"),
		kong.Description("Organize portfolio content and images, and export them for the site."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := parser.Run(&commands.Global{Stdout: os.Stdout})
	cancel()
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
