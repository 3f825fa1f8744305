package util

import (
	"strings"

	internalutil "github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/metas"
)

// FilterActivities keeps the activities whose description contains term,
// ignoring case. An empty or blank term keeps everything.
func FilterActivities(items []metas.ActivityItem, term string) []metas.ActivityItem {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}

	filtered := make([]metas.ActivityItem, 0, len(items))
	for _, item := range items {
		if internalutil.ContainsFold(item.Description, term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
