package dedupe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var rankPrefixRe = regexp.MustCompile(`^\d+_`)

// Combine merges the files of several ranking output directories into
// dstDir, stripping the rank prefix from each name. Content seen
// earlier in the merge, or already present in dstDir, is copied once;
// name collisions between distinct contents get a numeric suffix.
// Returns the number of files copied.
func (d *Deduper) Combine(ctx context.Context, srcDirs []string, dstDir string) (int, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	seen := make(map[string]bool)
	existing, err := os.ReadDir(dstDir)
	if err != nil {
		return 0, fmt.Errorf("reading output directory: %w", err)
	}
	for _, entry := range existing {
		if entry.IsDir() {
			continue
		}
		digest, err := d.digest(ctx, filepath.Join(dstDir, entry.Name()))
		if err != nil {
			d.logger.Warn("skipping unhashable file", "path", entry.Name(), "error", err)
			continue
		}
		seen[digest] = true
	}

	copied := 0
	for _, srcDir := range srcDirs {
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			return copied, fmt.Errorf("reading %s: %w", srcDir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			src := filepath.Join(srcDir, entry.Name())

			digest, err := d.digest(ctx, src)
			if err != nil {
				d.logger.Warn("skipping unhashable file", "path", src, "error", err)
				continue
			}
			if seen[digest] {
				d.logger.Debug("already combined", "path", src)
				continue
			}

			name := rankPrefixRe.ReplaceAllString(entry.Name(), "")
			dst, err := uniquePath(dstDir, name)
			if err != nil {
				return copied, err
			}
			if err := copyFile(src, dst); err != nil {
				d.logger.Warn("skipping uncopyable file", "path", src, "error", err)
				continue
			}
			seen[digest] = true
			copied++
		}
	}

	d.logger.Info("ranking outputs combined", "copied", copied, "dirs", len(srcDirs))
	return copied, nil
}
