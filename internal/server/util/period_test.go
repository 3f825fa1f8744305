package util

import (
	"errors"
	"testing"

	"github.com/unl-extension/metas/backend/pkg/metas"
)

func ptr(s string) *string { return &s }

func TestValidatePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   *string
		end     *string
		wantErr bool
	}{
		{name: "both_empty", start: nil, end: nil},
		{name: "only_start", start: ptr("2024-03-01")},
		{name: "valid_range", start: ptr("2024-03-01"), end: ptr("2024-12-31")},
		{name: "same_day", start: ptr("2024-03-01"), end: ptr("2024-03-01")},
		{name: "inverted_range", start: ptr("2024-05-01"), end: ptr("2024-03-01"), wantErr: true},
		{name: "before_first_year", start: ptr("2022-12-31"), wantErr: true},
		{name: "bad_format", end: ptr("01/03/2024"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePeriod(tc.start, tc.end)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidatePeriod() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidatePeriod_InvertedMessage(t *testing.T) {
	t.Parallel()

	err := ValidatePeriod(ptr("2024-05-01"), ptr("2024-03-01"))
	if !errors.Is(err, ErrInvertedPeriod) {
		t.Fatalf("expected ErrInvertedPeriod, got %v", err)
	}
	if err.Error() != "La fecha de inicio no puede ser mayor a la fecha de fin" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNormalizePointDates(t *testing.T) {
	t.Parallel()

	id := 7
	got, err := NormalizePointDates([]metas.PointDate{
		{ID: &id, Date: ptr("2024-06-10")},
		{Date: nil},
		{Date: ptr("2024-04-01")},
		{Date: ptr("2024-06-10")},
		{Date: ptr("")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(got))
	}
	if *got[0].Date != "2024-04-01" || *got[1].Date != "2024-06-10" {
		t.Fatalf("unexpected order: %s, %s", *got[0].Date, *got[1].Date)
	}
	if got[1].ID == nil || *got[1].ID != 7 {
		t.Fatalf("first occurrence must keep its id")
	}
}

func TestNormalizePointDates_RejectsInvalid(t *testing.T) {
	t.Parallel()

	if _, err := NormalizePointDates([]metas.PointDate{{Date: ptr("2024-13-01")}}); err == nil {
		t.Fatal("expected error for invalid date")
	}
}
