package storage

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_`)

// LatestPostDate scans saved markdown filenames under outputDir and returns
// the most recent date prefix (YYYY-MM-DD). The second return is false when
// no dated post files exist.
func LatestPostDate(outputDir string) (string, bool) {
	latest := ""
	filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		m := datePrefix.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		// ISO dates compare correctly as strings.
		if m[1] > latest {
			latest = m[1]
		}
		return nil
	})
	return latest, latest != ""
}
