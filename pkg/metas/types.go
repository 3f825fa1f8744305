package metas

import "github.com/unl-extension/metas/backend/pkg/relation"

// Envelope is the response wrapper used by every metas endpoint.
type Envelope[T any] struct {
	OK    bool   `json:"ok"`
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

type Rating struct {
	ID   int    `json:"idValoracion"`
	Name string `json:"nom"`
}

type Objective struct {
	ID   int    `json:"idObjetivo"`
	Name string `json:"nom"`
}

// Bases is the reference catalog served by GET /bases/.
type Bases struct {
	Ratings           []Rating                `json:"listaValoraciones"`
	Areas             []relation.CatalogEntry `json:"lAreas"`
	Objectives        []Objective             `json:"listaObjetivos"`
	ExtensionPrograms []relation.CatalogEntry `json:"listaProgramasSIPPE"`
}

// RatingName returns the display name of a rating id, or "" when unknown.
func (b *Bases) RatingName(id int) string {
	if b == nil {
		return ""
	}
	for _, r := range b.Ratings {
		if r.ID == id {
			return r.Name
		}
	}
	return ""
}

type Area struct {
	ID   int    `json:"idArea"`
	Name string `json:"nom"`
}

type Program struct {
	ID    int    `json:"idPrograma"`
	Name  string `json:"nom"`
	Areas []Area `json:"listaAreas"`
}

// ActivityItem is the short form returned when listing the activities of an area.
type ActivityItem struct {
	ID          int    `json:"idActividad"`
	Description string `json:"desc"`
}

type PointDate struct {
	ID   *int    `json:"idFecha"`
	Date *string `json:"fecha"`
}

type Goal struct {
	ID          *int    `json:"idMeta"`
	Description *string `json:"descripcion"`
	Result      *string `json:"resultado"`
	Notes       *string `json:"observaciones"`
	Rating      *int    `json:"valoracion"`
}

type Institution struct {
	ID       *int    `json:"idInstitucion"`
	Name     *string `json:"nom"`
	Location *string `json:"ubicacion"`
}

type Link struct {
	ID          int    `json:"idEnlace"`
	URL         string `json:"link"`
	Description string `json:"desc"`
}

// Activity is the full planning record of GET /actividad/{id}.
type Activity struct {
	ID                int           `json:"idActividad"`
	AreaID            int           `json:"idArea"`
	Number            int           `json:"nro"`
	Description       string        `json:"desc"`
	Details           *string       `json:"descripcion,omitempty"`
	StartDate         *string       `json:"fechaDesde"`
	EndDate           *string       `json:"fechaHasta"`
	PointDates        []PointDate   `json:"listaFechasPuntuales"`
	Goals             []Goal        `json:"listaMetas"`
	Objectives        []int         `json:"listaObjetivos"`
	Relations         []int         `json:"listaRelaciones"`
	ExtensionPrograms []int         `json:"listaProgramasSIPPE"`
	Institutions      []Institution `json:"listaInstituciones"`
	Links             []Link        `json:"listaEnlaces"`
	CancelReason      *string       `json:"motivoCancel"`
}

// Suspended reports whether the activity carries a cancellation reason.
func (a *Activity) Suspended() bool {
	return a.CancelReason != nil && *a.CancelReason != ""
}

// NewActivity is the body of POST /actividad.
type NewActivity struct {
	ID          int     `json:"idActividad"`
	AreaID      int     `json:"idArea"`
	Number      int     `json:"nro"`
	Description string  `json:"desc"`
	StartDate   *string `json:"fechaDesde"`
	EndDate     *string `json:"fechaHasta"`
}
