// Package live renders a camera feed continuously.
package live

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"

	"asciicam/applog"
	"asciicam/camera"
	"asciicam/camera/device"
	"asciicam/display"
	"asciicam/export"
	"asciicam/frame"
	"asciicam/glyph"
	"asciicam/pipeline"
	"asciicam/tuning"
)

const maxFPS = 120

type CLICmd struct {
	Device       int    `help:"Camera device index." default:"0" env:"ASCIICAM_DEVICE"`
	Source       string `help:"Play back an image file or folder instead of a camera." type:"path"`
	FPS          int    `name:"fps" help:"Frames per second (1 to 120)." default:"30" env:"ASCIICAM_FPS"`
	SkipDistance int    `help:"Skip frames within this perceptual hash distance of the last one, 0 disables." default:"0"`
	Plain        bool   `help:"Write frames to stdout instead of a full-screen display." default:"false"`
	Status       bool   `help:"Show the tuning status line." default:"true" negatable:""`
	ExportOnExit bool   `help:"Export the last frame when the session ends." default:"false"`

	Tuning tuning.Flags `embed:""`
	Export export.Flags `embed:"" prefix:"export-"`

	Exporter *export.Exporter `kong:"-"`
	// Stdout receives plain frames, os.Stdout when nil.
	Stdout io.Writer `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	c.Tuning.Clamp(slog.Default())

	if c.FPS < 1 || c.FPS > maxFPS {
		clamped := min(max(c.FPS, 1), maxFPS)
		slog.Warn("value out of range, clamped", "flag", "fps", "value", c.FPS, "clamped", clamped)
		c.FPS = clamped
	}
	if c.SkipDistance < 0 {
		return fmt.Errorf("invalid skip distance: %d", c.SkipDistance)
	}

	if c.Source != "" {
		src, err := filepath.Abs(c.Source)
		if err == nil {
			_, err = os.Stat(src)
		}
		if err != nil {
			return fmt.Errorf("invalid source path %q: %w", c.Source, err)
		}
		c.Source = src
	}

	var err error
	if c.Exporter, err = c.Export.Exporter(); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) source(logger *slog.Logger) camera.Source {
	if c.Source != "" {
		return &camera.Files{Path: c.Source}
	}
	return device.New(c.Device, logger)
}

func (c *CLICmd) Run(ctx context.Context, out applog.Output) error {
	logger := slog.Default()

	sampler, err := frame.NewSampler(c.Tuning.Filter)
	if err != nil {
		return err
	}
	state := tuning.NewState(c.Tuning.Tuning())

	src := c.source(logger)
	if err := camera.Acquire(ctx, logger, src); err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			logger.Error("could not close source", "error", closeErr)
		}
	}()

	conf := pipeline.Config{FPS: c.FPS, SkipDistance: c.SkipDistance}

	if c.Plain {
		w := c.Stdout
		if w == nil {
			w = os.Stdout
		}
		sink := &display.Writer{W: w, Redraw: true}
		err := pipeline.New(src, sink, state, sampler, conf, logger).Run(ctx)
		if c.ExportOnExit {
			c.exportLast(logger, sink.Last())
		}
		return err
	}

	// The full-screen display owns the terminal, stderr logging would tear it.
	if !out.File {
		logger = slog.New(slog.DiscardHandler)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("could not open terminal: %w", err)
	}
	term, err := display.NewTerminal(screen, state, c.Exporter.Export, logger)
	if err != nil {
		return err
	}
	term.Status = c.Status

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go term.Run(ctx, cancel)

	err = pipeline.New(src, term, state, sampler, conf, logger).Run(ctx)
	term.Close()

	if c.ExportOnExit {
		c.exportLast(slog.Default(), term.Last())
	}
	return err
}

func (c *CLICmd) exportLast(logger *slog.Logger, grid glyph.Grid) {
	path, err := c.Exporter.Export(grid)
	if err != nil {
		logger.Error("could not export last frame", "error", err)
		return
	}
	logger.Info("exported last frame", "file", path)
}
