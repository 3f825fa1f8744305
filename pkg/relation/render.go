package relation

// Category binds a relation type to the label it is rendered under.
type Category struct {
	RelationTypeID int    `json:"idTipoRelacion"`
	Label          string `json:"label"`
}

// DetailCategories is the category order of the activity detail view.
var DetailCategories = []Category{
	{RelationTypeID: 1, Label: "Internas Secretaría"},
	{RelationTypeID: 2, Label: "Internas UNL"},
	{RelationTypeID: 3, Label: "Unidades Académicas involucradas"},
	{RelationTypeID: 4, Label: "Programas de Extensión"},
}

// SummaryCategories is the category order of the activity summary card.
var SummaryCategories = []Category{
	{RelationTypeID: 1, Label: "Internas Secretaría"},
	{RelationTypeID: 2, Label: "Otras áreas centrales"},
	{RelationTypeID: 3, Label: "Unidades Académicas involucradas"},
	{RelationTypeID: 4, Label: "Programas de Extensión"},
}

// Report is the full result of a render: the non-empty groups in category
// order and, per relation type, how many ids were dropped.
type Report struct {
	Groups  []Group
	Dropped map[int]int
}

// DroppedTotal sums the dropped ids over every category.
func (r Report) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// RenderGroups resolves every category of defs, in order, against the raw id
// list registered for its relation type. Categories without data are omitted.
// The result never contains nil groups and is empty, not nil, when nothing
// resolved.
func RenderGroups(defs []Category, lists map[int][]int, idx *Index) []Group {
	return Render(defs, lists, idx).Groups
}

// Render is RenderGroups plus per-type dropped counts.
func Render(defs []Category, lists map[int][]int, idx *Index) Report {
	report := Report{
		Groups:  make([]Group, 0, len(defs)),
		Dropped: make(map[int]int),
	}

	for _, def := range defs {
		res := Resolve(lists[def.RelationTypeID], def.RelationTypeID, def.Label, idx)
		if res.Dropped > 0 {
			report.Dropped[def.RelationTypeID] += res.Dropped
		}
		if res.Group != nil {
			report.Groups = append(report.Groups, *res.Group)
		}
	}

	return report
}

// SameList registers ids under every relation type of defs. The detail view
// resolves a single relation list against each category this way.
func SameList(defs []Category, ids []int) map[int][]int {
	lists := make(map[int][]int, len(defs))
	for _, def := range defs {
		lists[def.RelationTypeID] = ids
	}
	return lists
}
