package util

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/unl-extension/metas/backend/pkg/metas"
)

// DateLayout is the date format used by the metas API.
const DateLayout = "2006-01-02"

// MinPlanningDate is the earliest date an activity period may start on.
var MinPlanningDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

var ErrInvertedPeriod = errors.New("La fecha de inicio no puede ser mayor a la fecha de fin")

// ValidatePeriod checks the optional period bounds of an activity.
func ValidatePeriod(start, end *string) error {
	from, err := parsePlanningDate("fechaDesde", start)
	if err != nil {
		return err
	}
	to, err := parsePlanningDate("fechaHasta", end)
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return ErrInvertedPeriod
	}
	return nil
}

func parsePlanningDate(field string, value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, *value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: formato de fecha inválido %q", field, *value)
	}
	if t.Before(MinPlanningDate) {
		return time.Time{}, fmt.Errorf("%s: la fecha no puede ser anterior a %s", field, MinPlanningDate.Format(DateLayout))
	}
	return t, nil
}

// NormalizePointDates drops empty dates and duplicates and sorts the rest
// ascending. The first occurrence of a date keeps its id. Invalid dates are
// reported as an error.
func NormalizePointDates(dates []metas.PointDate) ([]metas.PointDate, error) {
	out := make([]metas.PointDate, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if d.Date == nil || *d.Date == "" {
			continue
		}
		if _, err := parsePlanningDate("listaFechasPuntuales", d.Date); err != nil {
			return nil, err
		}
		if seen[*d.Date] {
			continue
		}
		seen[*d.Date] = true
		out = append(out, d)
	}

	slices.SortStableFunc(out, func(a, b metas.PointDate) int {
		switch {
		case *a.Date < *b.Date:
			return -1
		case *a.Date > *b.Date:
			return 1
		}
		return 0
	})
	return out, nil
}
