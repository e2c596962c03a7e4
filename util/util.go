package util

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/tabdex/constants"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// GatherAllTabPaths walks path for tab files in lexical order, stopping
// after maxNum of them unless maxNum is 0.
func GatherAllTabPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if maxNum != 0 && len(res) >= maxNum {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(s), constants.TabExtension) {
			res = append(res, s)
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrapf(err, "could not walk %s", path)
	}
	return res, nil
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[A any](items []A, size int) [][]A {
	var res [][]A
	for size > 0 && len(items) > 0 {
		n := Min(size, len(items))
		res = append(res, items[:n])
		items = items[n:]
	}
	return res
}

// Unique drops repeated items, keeping the first of each in order.
func Unique[A comparable](items []A) []A {
	seen := make(map[A]bool, len(items))
	var res []A
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			res = append(res, item)
		}
	}
	return res
}
