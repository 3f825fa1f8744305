// Package relation joins the raw relation ids attached to an activity or area
// against the reference catalog and groups the resolved entries by relation
// type for display.
package relation

import "strconv"

// CatalogEntry is one organizational or programmatic unit of the reference
// catalog. The pair (RelationID, RelationTypeID) is unique across a catalog.
type CatalogEntry struct {
	RelationID     int    `json:"idRelacion"`
	RelationTypeID int    `json:"idTipoRelacion"`
	Name           string `json:"nom"`
}

// Key returns the composite lookup key "{relationID}-{relationTypeID}".
func Key(relationID, relationTypeID int) string {
	return strconv.Itoa(relationID) + "-" + strconv.Itoa(relationTypeID)
}

// Index maps composite keys to catalog entries. It is never mutated after
// BuildIndex returns, so a single value can be shared between goroutines.
// A nil *Index is a valid, empty index.
type Index struct {
	entries map[string]CatalogEntry
}

// BuildIndex derives an Index from a flat catalog. When the catalog holds the
// same composite key more than once the later entry wins.
func BuildIndex(entries []CatalogEntry) *Index {
	m := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		m[Key(e.RelationID, e.RelationTypeID)] = e
	}
	return &Index{entries: m}
}

// Merge builds a single index out of several catalogs, applied in order.
func Merge(catalogs ...[]CatalogEntry) *Index {
	size := 0
	for _, c := range catalogs {
		size += len(c)
	}
	all := make([]CatalogEntry, 0, size)
	for _, c := range catalogs {
		all = append(all, c...)
	}
	return BuildIndex(all)
}

// Lookup returns the entry stored for (relationID, relationTypeID).
func (idx *Index) Lookup(relationID, relationTypeID int) (CatalogEntry, bool) {
	if idx == nil {
		return CatalogEntry{}, false
	}
	e, ok := idx.entries[Key(relationID, relationTypeID)]
	return e, ok
}

// Len reports the number of distinct keys in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
