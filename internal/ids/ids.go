package ids

import "github.com/segmentio/ksuid"

// New returns a k-sortable unique identifier suitable for on-disk object
// names: freshly generated names never collide, so concurrent writers
// under the storage root own disjoint key spaces.
func New() string {
	return ksuid.New().String()
}
