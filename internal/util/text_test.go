package util

import (
	"reflect"
	"testing"
)

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "Secretaría de Extensión",
			want:  "Secretaría de Extensión",
		},
		{
			name:  "contains null byte",
			input: "FI\x00CH",
			want:  "FICH",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractURLs(t *testing.T) {
	got := ExtractURLs("ver https://www.unl.edu.ar/pie y http://x.org/a?b=1 fin")
	want := []string{"https://www.unl.edu.ar/pie", "http://x.org/a?b=1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := ExtractURLs("sin enlaces"); len(got) != 0 {
		t.Fatalf("expected no urls, got %v", got)
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Jornada de EXTENSIÓN", "extensión") {
		t.Fatal("expected case-insensitive match")
	}
	if ContainsFold("Taller", "curso") {
		t.Fatal("unexpected match")
	}
	if !ContainsFold("Taller", "") {
		t.Fatal("empty term must match")
	}
}
