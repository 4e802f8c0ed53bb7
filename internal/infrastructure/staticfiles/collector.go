package staticfiles

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/natefinch/atomic"
)

// Result counts the files handled by a collection run
type Result struct {
	Copied     int
	Unmodified int
}

// Collector copies a static asset tree into the directory the server serves from
type Collector struct {
	src    fs.FS
	root   string
	logger logger.Logger
}

// NewCollector creates a collector copying src into root
func NewCollector(src fs.FS, root string, logger logger.Logger) *Collector {
	return &Collector{src: src, root: root, logger: logger}
}

// Collect writes every file of the source tree below root. Each file is replaced
// atomically; files whose content already matches are left alone.
func (c *Collector) Collect() (Result, error) {
	var res Result

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return res, fmt.Errorf("failed to create static root %s: %w", c.root, err)
	}

	err := fs.WalkDir(c.src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(c.root, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}

		data, err := fs.ReadFile(c.src, path)
		if err != nil {
			return err
		}
		if existing, err := os.ReadFile(dst); err == nil && bytes.Equal(existing, data) {
			res.Unmodified++
			return nil
		}
		if err := atomic.WriteFile(dst, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
		res.Copied++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("failed to collect static files: %w", err)
	}

	c.logger.Info(fmt.Sprintf("%d static files copied to '%s', %d unmodified.", res.Copied, c.root, res.Unmodified))
	return res, nil
}
