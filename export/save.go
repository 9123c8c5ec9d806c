package export

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"asciicam/glyph"
)

// Formats lists the accepted output formats, the first being the default.
var Formats = []string{"png", "gif", "jpeg", "bmp", "tiff"}

// FileName names an export taken at t. The timestamp is always UTC.
func FileName(t time.Time, format string) string {
	return fmt.Sprintf("ascii-art-%s.%s", t.UTC().Format("2006-01-02T15-04-05"), format)
}

// Save encodes img into dir/name in the given format.
func Save(img image.Image, dir, name, format string) (string, error) {
	return WriteFile(dir, name, func(w io.Writer) error {
		switch format {
		case "gif":
			if err := gif.Encode(w, img, nil); err != nil {
				return fmt.Errorf("could not encode GIF destination %q: %w", name, err)
			}
		case "jpeg":
			if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
				return fmt.Errorf("could not encode JPEG destination %q: %w", name, err)
			}
		case "png":
			enc := png.Encoder{
				CompressionLevel: png.BestCompression,
				BufferPool:       pngPool,
			}
			if err := enc.Encode(w, img); err != nil {
				return fmt.Errorf("could not encode PNG destination %q: %w", name, err)
			}
		case "bmp":
			if err := bmp.Encode(w, img); err != nil {
				return fmt.Errorf("could not encode BMP destination %q: %w", name, err)
			}
		case "tiff":
			if err := tiff.Encode(w, img, nil); err != nil {
				return fmt.Errorf("could not encode TIFF destination %q: %w", name, err)
			}
		default:
			return fmt.Errorf("unsupported output format: %s", format)
		}
		return nil
	})
}

// WriteFile creates dir/name with the contents produced by write. The data
// goes to a temporary file first and is renamed into place once fully
// flushed, so readers never see a partial file.
func WriteFile(dir, name string, write func(io.Writer) error) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create destination folder %q: %w", dir, err)
	}

	outFile, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	path = filepath.Join(dir, name)
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", name, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
			path = ""
		}
	}()

	if err = write(outFile); err != nil {
		return path, err
	}

	canRename = true
	return path, nil
}

// Exporter renders and saves grids with fixed settings.
type Exporter struct {
	Dir     string
	Format  string
	Options Options
	Now     func() time.Time
}

// Export writes grid as a new timestamped image and returns its path.
func (e *Exporter) Export(grid glyph.Grid) (string, error) {
	img, err := Render(grid, e.Options)
	if err != nil {
		return "", err
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	format := e.Format
	if format == "" {
		format = Formats[0]
	}
	return Save(img, e.Dir, FileName(now(), format), format)
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
