// Package summary builds the read models served by the console: the activity
// detail, the activity summary card and the area summary. Relation lists are
// resolved against a catalog snapshot.
package summary

import (
	"slices"
	"strconv"
	"time"

	"github.com/unl-extension/metas/backend/internal/metrics"
	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/relation"
)

const (
	NoObjectives = "No hay objetivos cargados"
	NoGoals      = "No hay metas cargadas"
	NoAreas      = "No hay Areas Cargadas"
	NoRating     = "No hay valoración cargada"

	// StrategicPlanURL is shown as the reference for the objectives lists.
	StrategicPlanURL = "https://www.unl.edu.ar/pie/wp-content/uploads/sites/55/2021/02/Plan-Institucional-Estrat%C3%A9gico.pdf"

	// FirstYear is the oldest planning year offered by the console.
	FirstYear = 2023

	// lastStrategicObjective separates strategic objectives (1-4) from
	// institutional plan objectives (5 and up).
	lastStrategicObjective = 4
)

type GoalView struct {
	Description string   `json:"descripcion"`
	Result      string   `json:"resultado"`
	Notes       string   `json:"observaciones"`
	Rating      string   `json:"valoracion"`
	URLs        []string `json:"urls,omitempty"`
}

// ActivitySummary is the summary card of one activity.
type ActivitySummary struct {
	ID                      int              `json:"idActividad"`
	Description             string           `json:"desc"`
	StrategicObjectives     []string         `json:"objetivosEstrategicos"`
	InstitutionalObjectives []string         `json:"planInstitucional"`
	ObjectivesPlaceholder   string           `json:"objetivosPlaceholder,omitempty"`
	Reference               string           `json:"referencia,omitempty"`
	Goals                   []GoalView       `json:"metas"`
	GoalsPlaceholder        string           `json:"metasPlaceholder,omitempty"`
	Relations               []relation.Group `json:"areas"`
	RelationsPlaceholder    string           `json:"areasPlaceholder,omitempty"`
}

// Summarize builds the summary card of a. Relation types 1 to 3 come from
// listaRelaciones and type 4 from listaProgramasSIPPE, all resolved against
// the summary index of snap.
func Summarize(a *metas.Activity, snap *catalog.Snapshot) ActivitySummary {
	s := ActivitySummary{
		ID:          a.ID,
		Description: a.Description,
	}

	s.StrategicObjectives, s.InstitutionalObjectives = splitObjectives(a.Objectives, snap.Bases.Objectives)
	if len(a.Objectives) == 0 {
		s.ObjectivesPlaceholder = NoObjectives
	} else {
		s.Reference = StrategicPlanURL
	}

	s.Goals = goalViews(a.Goals, &snap.Bases, true)
	if len(s.Goals) == 0 {
		s.GoalsPlaceholder = NoGoals
	}

	lists := map[int][]int{
		1: a.Relations,
		2: a.Relations,
		3: a.Relations,
		4: a.ExtensionPrograms,
	}
	report := relation.Render(relation.SummaryCategories, lists, snap.SummaryIndex)
	recordUnresolved(report)
	s.Relations = report.Groups
	if len(s.Relations) == 0 {
		s.RelationsPlaceholder = NoAreas
	}

	return s
}

func splitObjectives(selected []int, catalogObjectives []metas.Objective) (strategic, institutional []string) {
	strategic = []string{}
	institutional = []string{}
	for _, o := range catalogObjectives {
		if !slices.Contains(selected, o.ID) {
			continue
		}
		if o.ID <= lastStrategicObjective {
			strategic = append(strategic, o.Name)
		} else {
			institutional = append(institutional, o.Name)
		}
	}
	return strategic, institutional
}

func goalViews(goals []metas.Goal, bases *metas.Bases, withURLs bool) []GoalView {
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		v := GoalView{
			Description: deref(g.Description),
			Result:      deref(g.Result),
			Notes:       deref(g.Notes),
			Rating:      NoRating,
		}
		if g.Rating != nil {
			if name := bases.RatingName(*g.Rating); name != "" {
				v.Rating = name
			}
		}
		if withURLs {
			for _, text := range []string{v.Description, v.Result, v.Notes} {
				v.URLs = append(v.URLs, util.ExtractURLs(text)...)
			}
		}
		views = append(views, v)
	}
	return views
}

func recordUnresolved(report relation.Report) {
	for typeID, n := range report.Dropped {
		metrics.RelationUnresolvedTotal.WithLabelValues(strconv.Itoa(typeID)).Add(float64(n))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Years lists the selectable planning years, newest first, from the year of
// now down to FirstYear.
func Years(now time.Time) []int {
	years := []int{}
	for y := now.Year(); y >= FirstYear; y-- {
		years = append(years, y)
	}
	return years
}
