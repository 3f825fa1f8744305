package util

import "testing"

func TestExportStatusFromStoreStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		found  bool
		want   string
	}{
		{
			name:   "missing_export_returns_no_status",
			status: "",
			found:  false,
			want:   "no_status",
		},
		{
			name:   "completed_maps_to_ready",
			status: "completed",
			found:  true,
			want:   "ready",
		},
		{
			name:   "failed_maps_to_failed",
			status: "failed",
			found:  true,
			want:   "failed",
		},
		{
			name:   "pending_maps_to_processing",
			status: "pending",
			found:  true,
			want:   "processing",
		},
		{
			name:   "running_maps_to_processing",
			status: "running",
			found:  true,
			want:   "processing",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExportStatusFromStoreStatus(tc.status, tc.found)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
