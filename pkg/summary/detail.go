package summary

import (
	"sort"

	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/relation"
)

type InstitutionView struct {
	Name     string `json:"nom"`
	Location string `json:"ubicacion"`
}

// ActivityDetail is the read-only detail view of one activity.
type ActivityDetail struct {
	ID           int               `json:"idActividad"`
	AreaID       int               `json:"idArea"`
	Number       int               `json:"nro"`
	Description  string            `json:"desc"`
	Details      string            `json:"descripcion"`
	StartDate    string            `json:"fechaDesde,omitempty"`
	EndDate      string            `json:"fechaHasta,omitempty"`
	PointDates   []string          `json:"fechasPuntuales"`
	Goals        []GoalView        `json:"metas"`
	Institutions []InstitutionView `json:"instituciones"`
	Links        []metas.Link      `json:"enlaces"`
	Relations    []relation.Group  `json:"areas"`
	Suspended    bool              `json:"suspendida"`
	CancelReason string            `json:"motivoCancel,omitempty"`
}

// Detail builds the detail view of a. Every relation category reads
// listaRelaciones and resolves it against the areas index of snap.
func Detail(a *metas.Activity, snap *catalog.Snapshot) ActivityDetail {
	d := ActivityDetail{
		ID:           a.ID,
		AreaID:       a.AreaID,
		Number:       a.Number,
		Description:  a.Description,
		Details:      deref(a.Details),
		StartDate:    deref(a.StartDate),
		EndDate:      deref(a.EndDate),
		PointDates:   []string{},
		Goals:        goalViews(a.Goals, &snap.Bases, false),
		Institutions: []InstitutionView{},
		Links:        []metas.Link{},
		Suspended:    a.Suspended(),
		CancelReason: deref(a.CancelReason),
	}

	for _, pd := range a.PointDates {
		if pd.Date != nil && *pd.Date != "" {
			d.PointDates = append(d.PointDates, *pd.Date)
		}
	}
	sort.Strings(d.PointDates)

	for _, inst := range a.Institutions {
		if inst.Name == nil {
			continue
		}
		d.Institutions = append(d.Institutions, InstitutionView{
			Name:     *inst.Name,
			Location: deref(inst.Location),
		})
	}
	d.Links = append(d.Links, a.Links...)

	report := relation.Render(relation.DetailCategories, relation.SameList(relation.DetailCategories, a.Relations), snap.Index)
	recordUnresolved(report)
	d.Relations = report.Groups

	return d
}
