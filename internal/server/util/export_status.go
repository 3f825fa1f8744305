package util

import "github.com/unl-extension/metas/backend/pkg/store"

// ExportStatusFromStoreStatus maps the stored export status to the status
// reported by the API.
func ExportStatusFromStoreStatus(status string, found bool) string {
	if !found {
		return "no_status"
	}

	switch status {
	case store.ExportCompleted:
		return "ready"
	case store.ExportFailed:
		return "failed"
	default:
		return "processing"
	}
}
