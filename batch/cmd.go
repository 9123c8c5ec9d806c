// Package batch converts still images to text art.
package batch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"asciicam/camera"
	"asciicam/display"
	"asciicam/export"
	"asciicam/frame"
	"asciicam/glyph"
	"asciicam/parallel"
	"asciicam/tuning"
)

type CLICmd struct {
	Scan   string `help:"Image file or folder to convert." default:"."`
	Dest   string `help:"Destination folder for converted files. Relative to the scanned folder if not absolute." default:"ascii"`
	Text   bool   `help:"Write a .txt file per image." default:"true" negatable:""`
	Image  bool   `help:"Also export each result as an image." default:"false"`
	Stdout bool   `help:"Print the text to stdout instead of writing files." default:"false"`

	Tuning tuning.Flags `embed:""`
	Export export.Flags `embed:"" prefix:"export-"`

	Exporter *export.Exporter `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scan, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		info, err = os.Stat(scan)
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scan

	if !filepath.IsAbs(c.Dest) {
		base := scan
		if !info.IsDir() {
			base = filepath.Dir(scan)
		}
		c.Dest = filepath.Join(base, c.Dest)
	}

	if !c.Text && !c.Image && !c.Stdout {
		return fmt.Errorf("nothing to do, enable --text, --image or --stdout")
	}

	c.Tuning.Clamp(slog.Default())

	if c.Image {
		if c.Exporter, err = c.Export.Exporter(); err != nil {
			return err
		}
		c.Exporter.Dir = c.Dest
	}
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	files, err := camera.ListImages(c.Scan)
	if err != nil {
		return err
	}
	if !c.Stdout || c.Image {
		if err := os.MkdirAll(c.Dest, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
		}
	}

	t := c.Tuning.Tuning()
	stdout := &display.Writer{W: os.Stdout}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		pool.Do(func() {
			logger := slog.Default().With("file", file)
			if err := c.convert(logger, file, t, stdout); err != nil {
				errCount.Add(1)
				logger.Error("could not convert image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Close()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) convert(logger *slog.Logger, file string, t glyph.Tuning, stdout display.Sink) error {
	img, err := camera.DecodeFile(file)
	if err != nil {
		return err
	}

	sampler, err := frame.NewSampler(c.Tuning.Filter)
	if err != nil {
		return err
	}
	buf, err := sampler.Sample(img, t.GridSize)
	if err != nil {
		return err
	}
	grid, err := glyph.Render(buf, t)
	if err != nil {
		return err
	}
	logger.Debug("converted", "width", grid.Width(), "height", grid.Height())

	if c.Stdout {
		if err := stdout.Publish(grid); err != nil {
			return err
		}
	}

	// The source extension stays in the name so shot.png and shot.jpg do
	// not collide.
	name := filepath.Base(file)

	if c.Text && !c.Stdout {
		if err := writeText(c.Dest, name+".txt", grid); err != nil {
			return err
		}
	}

	if c.Image {
		out, err := export.Render(grid, c.Exporter.Options)
		if err != nil {
			return err
		}
		path, err := export.Save(out, c.Dest, name+"."+c.Exporter.Format, c.Exporter.Format)
		if err != nil {
			return err
		}
		logger.Info("exported image", "to", path)
	}
	return nil
}

func writeText(dir, name string, grid glyph.Grid) error {
	_, err := export.WriteFile(dir, name, func(w io.Writer) error {
		if _, err := io.WriteString(w, grid.String()); err != nil {
			return fmt.Errorf("could not write %q: %w", name, err)
		}
		return nil
	})
	return err
}
