package file

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const Ext = ".axsd"

// OutputPath mirrors path, which must live under inRoot, into outDir with
// the MIDI extension swapped for .axsd.
func OutputPath(inRoot, outDir, path string) (string, error) {
	rel, err := filepath.Rel(inRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%s is not under %s", path, inRoot)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + Ext
	return filepath.Join(outDir, rel), nil
}

// CreateOutputMap pairs every input path with its output path.
func CreateOutputMap(inRoot, outDir string, paths []string) (map[string]string, error) {
	res := make(map[string]string, len(paths))
	for _, p := range paths {
		out, err := OutputPath(inRoot, outDir, p)
		if err != nil {
			return nil, err
		}
		res[p] = out
	}
	return res, nil
}
