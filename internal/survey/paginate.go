package survey

import "github.com/insightflow/insightflow-backend/internal/model"

// Paginate partitions the visible questions into contiguous, non-overlapping
// pages of perPage questions each; the last page may be shorter.
//
// perPage <= 0 means "everything on one page": exactly one page is returned
// even when visible is empty. With perPage > 0 and no visible questions the
// result has zero pages.
func Paginate(visible []model.Question, perPage int) [][]model.Question {
	if perPage <= 0 {
		return [][]model.Question{visible}
	}

	pages := make([][]model.Question, 0, (len(visible)+perPage-1)/perPage)
	for start := 0; start < len(visible); start += perPage {
		end := start + perPage
		if end > len(visible) {
			end = len(visible)
		}
		pages = append(pages, visible[start:end])
	}
	return pages
}

// ClampPage forces a page index back into [0, totalPages). Called after
// every re-pagination, since an answer change can hide enough questions that
// the current page no longer exists.
func ClampPage(current, totalPages int) int {
	if current > totalPages-1 {
		current = totalPages - 1
	}
	if current < 0 {
		current = 0
	}
	return current
}
