package util

import (
	"testing"

	"github.com/unl-extension/metas/backend/pkg/metas"
)

func TestFilterActivities(t *testing.T) {
	t.Parallel()

	items := []metas.ActivityItem{
		{ID: 1, Description: "Jornada de EXTENSIÓN"},
		{ID: 2, Description: "Taller de huerta"},
		{ID: 3, Description: "Curso de extensión rural"},
	}

	tests := []struct {
		name string
		term string
		want []int
	}{
		{name: "empty_term_returns_all", term: "", want: []int{1, 2, 3}},
		{name: "blank_term_returns_all", term: "   ", want: []int{1, 2, 3}},
		{name: "case_insensitive", term: "extensión", want: []int{1, 3}},
		{name: "no_match", term: "congreso", want: []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterActivities(items, tc.term)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tc.want))
			}
			for i, item := range got {
				if item.ID != tc.want[i] {
					t.Fatalf("item %d: got id %d, want %d", i, item.ID, tc.want[i])
				}
			}
		})
	}
}
