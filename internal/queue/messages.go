package queue

import "time"

// CatalogRefreshMsg asks a worker to reload the reference catalog.
type CatalogRefreshMsg struct {
	Reason      string `json:"reason"`
	RequestedBy int64  `json:"requested_by,omitempty"`
}

// CatalogUpdatedMsg is published on TopicCatalogUpdated after a refresh was
// stored.
type CatalogUpdatedMsg struct {
	LoadedAt time.Time `json:"loaded_at"`
	Entries  int       `json:"entries"`
}

// SummaryExportMsg asks a worker to export the summary of an area.
type SummaryExportMsg struct {
	ExportID string `json:"export_id"`
	AreaID   int    `json:"area_id"`
	Year     int    `json:"year"`
}
