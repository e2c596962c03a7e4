package file

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

func CreateFileNumMap(paths []string) model.FileNumToTabPath {
	res := make(model.FileNumToTabPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// RelativeName is path relative to root with forward slashes. It is the
// key tabs are indexed and served under.
func RelativeName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errors.Wrapf(err, "%s is not under %s", path, root)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.Errorf("%s is not under %s", path, root)
	}
	return rel, nil
}

// Resolve turns a name from RelativeName back into a path, refusing names
// that would escape root.
func Resolve(root, name string) (string, error) {
	path := filepath.Join(root, filepath.FromSlash(name))
	if _, err := RelativeName(root, path); err != nil || name == "" {
		return "", errors.Errorf("invalid tab name %q", name)
	}
	return path, nil
}
