// Package catalog loads the reference catalog from the metas API and shares
// it, together with its derived relation indexes, between every view of the
// process.
package catalog

import (
	"time"

	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/relation"
)

// Snapshot is an immutable catalog value. A new catalog always produces a new
// Snapshot; existing snapshots are never modified.
type Snapshot struct {
	Bases metas.Bases
	// Index holds the areas catalog (lAreas).
	Index *relation.Index
	// SummaryIndex holds lAreas plus listaProgramasSIPPE.
	SummaryIndex *relation.Index
	LoadedAt     time.Time
}

// NewSnapshot derives the relation indexes from bases.
func NewSnapshot(bases *metas.Bases, loadedAt time.Time) *Snapshot {
	if bases == nil {
		bases = &metas.Bases{}
	}
	return &Snapshot{
		Bases:        *bases,
		Index:        relation.BuildIndex(bases.Areas),
		SummaryIndex: relation.Merge(bases.Areas, bases.ExtensionPrograms),
		LoadedAt:     loadedAt,
	}
}

// Empty reports whether the snapshot was never loaded from a source.
func (s *Snapshot) Empty() bool {
	return s == nil || s.LoadedAt.IsZero()
}

var emptySnapshot = NewSnapshot(nil, time.Time{})
