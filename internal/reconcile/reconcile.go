// Package reconcile computes what a sync run has to do from the local and
// remote inventories. It performs no I/O.
package reconcile

import (
	"github.com/openmined/flickrsync/internal/photo"
)

// Plan is the outcome of a reconciliation. The four sets are pairwise
// disjoint and together cover every name of both inventories.
type Plan struct {
	// ToDelete holds remote-only names.
	ToDelete photo.NameSet
	// ToUpload holds local-only names.
	ToUpload photo.NameSet
	// ToReplace holds names on both sides where the local copy is strictly newer.
	ToReplace photo.NameSet
	// Unchanged holds names on both sides that need no action.
	Unchanged photo.NameSet
}

// Overlap returns the names present in both inventories.
func (p *Plan) Overlap() photo.NameSet {
	return p.ToReplace.Union(p.Unchanged)
}

// HasChanges reports whether applying the plan touches the remote side.
func (p *Plan) HasChanges() bool {
	return p.ToDelete.Cardinality() > 0 ||
		p.ToUpload.Cardinality() > 0 ||
		p.ToReplace.Cardinality() > 0
}

// Reconcile diffs local against remote.
//
// A name on both sides is replaced only when the local modification time is
// strictly after the remote one; equal or older local copies are left alone.
func Reconcile(local, remote photo.Inventory) *Plan {
	localNames := local.Names()
	remoteNames := remote.Names()
	overlap := localNames.Intersect(remoteNames)

	plan := &Plan{
		ToDelete:  remoteNames.Difference(localNames),
		ToUpload:  localNames.Difference(remoteNames),
		ToReplace: photo.NewNameSet(),
		Unchanged: photo.NewNameSet(),
	}

	for name := range overlap.Iter() {
		if local[name].Modified.After(remote[name].Modified) {
			plan.ToReplace.Add(name)
		} else {
			plan.Unchanged.Add(name)
		}
	}

	return plan
}
