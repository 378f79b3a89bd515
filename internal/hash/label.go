package hash

import "github.com/cespare/xxhash/v2"

// Label computes the xxHash64 of a field label.
func Label(name string) uint64 {
	return xxhash.Sum64String(name)
}
