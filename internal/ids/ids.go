package ids

import "github.com/segmentio/ksuid"

// New returns a ksuid string. Sortable by creation time, which keeps
// "newest first" listings cheap without a secondary index.
func New() string {
	return ksuid.New().String()
}
