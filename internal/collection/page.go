package collection

import "github.com/josephgoksu/taskdeck/models"

// DefaultPageSize is the number of tasks shown per page.
const DefaultPageSize = 10

// Window is one page cut from a projection, plus enough metadata to render
// pagination controls and the "Showing X to Y of Z" summary.
type Window struct {
	Items      []models.Task
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int
}

// Paginate slices a projection down to the requested page. An out-of-range
// page yields empty Items rather than an error; callers clamp the page back
// into [1, TotalPages] on their next recompute. TotalPages is at least 1,
// so page 1 is always valid even for an empty projection.
func Paginate(seq []models.Task, pageSize, page int) Window {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	totalPages := (len(seq) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(seq) {
		start = len(seq)
	}
	if end > len(seq) {
		end = len(seq)
	}

	return Window{
		Items:      seq[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: len(seq),
	}
}

// ShowingFrom is the 1-based index of the first visible item, 0 when the
// window is empty.
func (w Window) ShowingFrom() int {
	if len(w.Items) == 0 {
		return 0
	}
	return (w.Page-1)*w.PageSize + 1
}

// ShowingTo is the 1-based index of the last visible item.
func (w Window) ShowingTo() int {
	if len(w.Items) == 0 {
		return 0
	}
	return (w.Page-1)*w.PageSize + len(w.Items)
}
