//go:build !unix

// Package mmfile provisions backing regions for arenas.
package mmfile

import "fmt"

// Map allocates a heap region when anonymous mappings are not available.
func Map(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid mapping size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
