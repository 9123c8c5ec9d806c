package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"asciicam/applog"
	"asciicam/batch"
	"asciicam/live"
	"asciicam/parallel"
)

type CLI struct {
	Config   kong.ConfigFlag `help:"JSON configuration file." placeholder:"FILE"`
	LogLevel string          `help:"Log level." enum:"debug,info,warn,error" default:"info" env:"ASCIICAM_LOG_LEVEL"`
	LogFile  string          `help:"Write logs to this file instead of stderr." type:"path" env:"ASCIICAM_LOG_FILE"`
	LogJSON  bool            `name:"log-json" help:"Log in JSON format." default:"false"`
	Workers  int             `help:"Number of parallel workers for batch conversion, 0 uses all CPUs." default:"0"`

	Live    live.CLICmd  `cmd:"" default:"withargs" help:"Render the camera feed live."`
	Convert batch.CLICmd `cmd:"" help:"Convert image files to text art."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("asciicam"),
		kong.Description("Render a camera feed or still images as text-character art."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "/etc/asciicam.json", "~/.config/asciicam.json"),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	out, err := applog.Open(cli.LogFile)
	kctx.FatalIfErrorf(err)
	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			slog.Error("could not close log file", "error", closeErr)
		}
	}()
	applog.Init(out, cli.LogLevel, cli.LogJSON)

	slog.Debug("running", "command", kctx.Command())

	pool := parallel.Start(cli.Workers)
	err = kctx.Run(pool, out)
	pool.Close()
	if err != nil {
		// FatalIfErrorf reports to stderr, only a log file needs its own record.
		if out.File {
			slog.Error("command failed", "command", kctx.Command(), "error", err)
		}
		stop()
		kctx.FatalIfErrorf(err)
	}
}
