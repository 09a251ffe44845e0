// Package collection keeps the authoritative in-memory task set for one
// view and derives read-only projections from it. Mutations go through the
// remote gateway; the set only changes on confirmed outcomes, except for
// the optimistic toggle which rolls back if the server refuses.
package collection

import (
	"sort"
	"strings"

	"github.com/josephgoksu/taskdeck/models"
)

// Query is the view's current filter and ordering state.
type Query struct {
	Search string
	Status models.StatusFilter
	Sort   models.SortKey
}

// DefaultQuery matches everything, newest first.
func DefaultQuery() Query {
	return Query{Status: models.FilterAll, Sort: models.SortCreatedDesc}
}

// Project derives the filtered, ordered view of tasks. It is pure: the
// input slice is never mutated, and identical inputs yield an identical
// ordered result. Ties under SortTitleAsc keep the input order.
func Project(tasks []models.Task, q Query) []models.Task {
	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesStatus(t, q.Status) {
			continue
		}
		if !matchesSearch(t, q.Search) {
			continue
		}
		filtered = append(filtered, t)
	}

	switch q.Sort {
	case models.SortTitleAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Title < filtered[j].Title
		})
	case models.SortPendingFirst:
		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].Completed != filtered[j].Completed {
				return !filtered[i].Completed
			}
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	default: // models.SortCreatedDesc
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}
	return filtered
}

func matchesStatus(t models.Task, status models.StatusFilter) bool {
	switch status {
	case models.FilterPending:
		return !t.Completed
	case models.FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// matchesSearch is a case-insensitive substring match on title and
// description. An empty description never matches a non-empty search.
func matchesSearch(t models.Task, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle)
}
