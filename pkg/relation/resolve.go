package relation

import (
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Group is one rendered category: a label and the sorted display names of the
// relations that resolved under it.
type Group struct {
	Label          string   `json:"label"`
	RelationTypeID int      `json:"idTipoRelacion"`
	Items          []string `json:"items"`
}

// Resolution is the outcome of resolving one category. Group is nil when
// nothing resolved. Dropped counts the ids that had no catalog entry.
type Resolution struct {
	Group   *Group
	Dropped int
}

// collate.Collator keeps internal buffers and is not safe for concurrent use,
// so each sort borrows one from the pool. Every collator orders names the
// Spanish way.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Spanish)
	},
}

// ResolveGroup resolves rawIDs against idx under relationTypeID. Ids missing
// from the index are skipped. It returns nil when rawIDs is empty or nothing
// resolves.
func ResolveGroup(rawIDs []int, relationTypeID int, label string, idx *Index) *Group {
	return Resolve(rawIDs, relationTypeID, label, idx).Group
}

// Resolve is ResolveGroup plus the count of dropped ids.
func Resolve(rawIDs []int, relationTypeID int, label string, idx *Index) Resolution {
	if len(rawIDs) == 0 {
		return Resolution{}
	}

	resolved := make([]CatalogEntry, 0, len(rawIDs))
	for _, id := range rawIDs {
		if e, ok := idx.Lookup(id, relationTypeID); ok {
			resolved = append(resolved, e)
		}
	}

	dropped := len(rawIDs) - len(resolved)
	if len(resolved) == 0 {
		return Resolution{Dropped: dropped}
	}

	sortByName(resolved)

	items := make([]string, len(resolved))
	for i, e := range resolved {
		items[i] = e.Name
	}

	return Resolution{
		Group: &Group{
			Label:          label,
			RelationTypeID: relationTypeID,
			Items:          items,
		},
		Dropped: dropped,
	}
}

func sortByName(entries []CatalogEntry) {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)

	slices.SortStableFunc(entries, func(a, b CatalogEntry) int {
		return c.CompareString(a.Name, b.Name)
	})
}
