package service

import (
	"sort"
	"strings"

	"StorySync/internal/cli/model"
)

// Search returns stories whose description or name contains keyword,
// case-insensitively. A blank keyword returns the input unfiltered.
func Search(stories []model.Story, keyword string) []model.Story {
	term := strings.ToLower(strings.TrimSpace(keyword))
	if term == "" {
		return stories
	}
	res := make([]model.Story, 0, len(stories))
	for _, s := range stories {
		if strings.Contains(strings.ToLower(s.Description), term) ||
			strings.Contains(strings.ToLower(s.Name), term) {
			res = append(res, s)
		}
	}
	return res
}

// Filter returns stories with the given sync status; typ "all" returns
// everything.
func Filter(stories []model.Story, typ string) []model.Story {
	if typ == "" || typ == "all" {
		return stories
	}
	res := make([]model.Story, 0, len(stories))
	for _, s := range stories {
		if s.SyncStatus == model.SyncStatus(typ) {
			res = append(res, s)
		}
	}
	return res
}

// Sort orders stories by the given field. Unknown fields fall back to
// createdAt. The sort is stable, so ties keep store iteration order.
func Sort(stories []model.Story, field, order string) []model.Story {
	res := make([]model.Story, len(stories))
	copy(res, stories)
	asc := order == "asc"
	less := func(a, b model.Story) bool {
		switch field {
		case "description":
			return a.Description < b.Description
		case "name":
			return a.Name < b.Name
		case "id":
			return a.ID < b.ID
		case "syncStatus":
			return a.SyncStatus < b.SyncStatus
		default: // createdAt
			return a.CreatedAt < b.CreatedAt
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if asc {
			return less(res[i], res[j])
		}
		return less(res[j], res[i])
	})
	return res
}
