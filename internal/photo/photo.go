// Package photo holds the records shared by the local scanner, the remote
// fetcher and the reconciler.
package photo

import (
	"time"
)

// Record is one photo on either side of a sync.
//
// For a local record ID is the normalized filesystem path and Taken is nil.
// For a remote record ID is the service assigned photo id.
type Record struct {
	ID       string
	Taken    *time.Time
	Modified time.Time
}

// Inventory maps a photo name to its record. Local names are filenames
// without extension, remote names are titles.
type Inventory map[string]*Record

// Names returns the inventory keys as a set.
func (inv Inventory) Names() NameSet {
	names := NewNameSet()
	for name := range inv {
		names.Add(name)
	}
	return names
}
