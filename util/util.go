package util

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// TempPath returns a unique sibling of path used while it is being written.
func TempPath(path string) string {
	return path + "." + uuid.New().String() + ".tmp"
}

// WriteAtomically runs fn against a buffered temp file next to path and
// renames it over path only when fn and the flush succeed. On failure the
// temp file is removed and path is left untouched.
func WriteAtomically(path string, fn func(w io.Writer) error) (err error) {
	tmp := TempPath(path)
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "creating temp output")
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	w := bufio.NewWriter(f)
	if err = fn(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return errors.Wrap(err, "flushing output")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing output")
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "moving output into %s", filepath.Base(path))
	}
	return nil
}

// GatherAllMidiPaths walks root and returns every .mid or .midi file in
// walk order, stopping after maxNum paths when maxNum is positive.
func GatherAllMidiPaths(root string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if maxNum > 0 && len(res) >= maxNum {
			return filepath.SkipAll
		}
		if !d.IsDir() {
			ext := strings.ToLower(filepath.Ext(s))
			if ext == ".mid" || ext == ".midi" {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return res, nil
}
