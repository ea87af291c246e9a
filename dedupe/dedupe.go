// Package dedupe removes duplicate documents from a collection by
// content rather than by file name.
//
// PDF files are compared on their extracted text, case-folded, so the
// same scan saved under two names or re-exported with different object
// layouts still counts as one document. Other files are compared on
// their raw bytes. Digests are kept in a persistent cache so successive
// runs over a growing collection only pay for the new files.
package dedupe

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/librank/core"
	"github.com/poiesic/librank/extract"
)

// Deduper copies content-unique documents from one directory to another.
type Deduper struct {
	cache     *HashCache
	extractor *extract.Extractor
	exts      map[string]bool
	logger    *slog.Logger
}

// Option configures a Deduper.
type Option func(*Deduper)

// WithExtractor sets a custom text extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(d *Deduper) {
		if e != nil {
			d.extractor = e
		}
	}
}

// WithExtensions restricts CopyUnique to files with the given
// extensions (case-insensitive, leading dot optional). Default is all
// regular files.
func WithExtensions(exts ...string) Option {
	return func(d *Deduper) {
		if len(exts) == 0 {
			return
		}
		d.exts = make(map[string]bool, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			d.exts[ext] = true
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deduper) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// New creates a Deduper over the given hash cache.
func New(cache *HashCache, opts ...Option) (*Deduper, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	d := &Deduper{
		cache:     cache,
		extractor: extract.NewExtractor(),
		logger:    slog.Default().With("component", "deduper"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// CopyUnique copies every content-unique regular file from srcDir into
// dstDir and returns the number copied. Files whose digest is already
// in the cache are skipped. Name collisions in dstDir get a numeric
// suffix before the extension.
func (d *Deduper) CopyUnique(ctx context.Context, srcDir, dstDir string) (int, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, fmt.Errorf("reading source directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	copied := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if d.exts != nil && !d.exts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		src := filepath.Join(srcDir, name)

		digest, err := d.digest(ctx, src)
		if err != nil {
			d.logger.Warn("skipping unhashable file", "path", src, "error", err)
			continue
		}

		seen, err := d.cache.Seen(digest)
		if err != nil {
			return copied, fmt.Errorf("checking hash cache: %w", err)
		}
		if seen {
			d.logger.Debug("duplicate content", "path", src)
			continue
		}

		dst, err := uniquePath(dstDir, name)
		if err != nil {
			return copied, err
		}
		if err := copyFile(src, dst); err != nil {
			d.logger.Warn("skipping uncopyable file", "path", src, "error", err)
			continue
		}
		if err := d.cache.Add(digest, name); err != nil {
			return copied, fmt.Errorf("updating hash cache: %w", err)
		}
		copied++
	}

	d.logger.Info("unique documents copied", "copied", copied, "scanned", len(entries))
	return copied, nil
}

// digest returns the content digest for the file. PDFs are hashed on
// their case-folded extracted text when any can be recovered; all other
// files, and PDFs with no recoverable text, are hashed on raw bytes.
func (d *Deduper) digest(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text := d.extractor.Text(ctx, path)
		if text != "" {
			return core.ContentHash(strings.ToLower(text)), nil
		}
	}
	return fileHash(path)
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, _ := blake2b.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// uniquePath returns a destination path for name in dir, appending _N
// before the extension until the name is free.
func uniquePath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if i > 10000 {
			return "", fmt.Errorf("no free name for %s in %s", name, dir)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
