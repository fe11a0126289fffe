package survey

import (
	"fmt"
	"testing"

	"github.com/insightflow/insightflow-backend/internal/model"
)

func questionList(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = textQuestion(fmt.Sprintf("q%d", i+1))
	}
	return qs
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		perPage   int
		wantPages []int // question count per page
	}{
		{"twelve by five", 12, 5, []int{5, 5, 2}},
		{"exact multiple", 10, 5, []int{5, 5}},
		{"fewer than one page", 3, 5, []int{3}},
		{"per page one", 3, 1, []int{1, 1, 1}},
		{"zero per page is one page", 12, 0, []int{12}},
		{"zero per page with no questions still one page", 0, 0, []int{0}},
		{"negative per page treated as all on one page", 4, -1, []int{4}},
		{"no questions with positive per page", 0, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := questionList(tt.total)
			pages := Paginate(visible, tt.perPage)

			if len(pages) != len(tt.wantPages) {
				t.Fatalf("got %d pages, want %d", len(pages), len(tt.wantPages))
			}
			for i, want := range tt.wantPages {
				if len(pages[i]) != want {
					t.Errorf("page %d has %d questions, want %d", i, len(pages[i]), want)
				}
			}

			// Concatenating all pages must reproduce the input exactly.
			var flat []model.Question
			for _, p := range pages {
				flat = append(flat, p...)
			}
			if len(flat) != tt.total {
				t.Fatalf("concatenated pages have %d questions, want %d", len(flat), tt.total)
			}
			for i := range flat {
				if flat[i].ID != visible[i].ID {
					t.Errorf("question %d out of order: got %s, want %s", i, flat[i].ID, visible[i].ID)
				}
			}
		})
	}
}

func TestPaginateIdempotent(t *testing.T) {
	visible := questionList(7)
	first := Paginate(visible, 3)
	second := Paginate(visible, 3)

	if len(first) != len(second) {
		t.Fatalf("page counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatalf("page %d sizes differ: %d vs %d", i, len(first[i]), len(second[i]))
		}
		for j := range first[i] {
			if first[i][j].ID != second[i][j].ID {
				t.Errorf("page %d question %d differ: %s vs %s", i, j, first[i][j].ID, second[i][j].ID)
			}
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		current, totalPages, want int
	}{
		{0, 3, 0},
		{2, 3, 2},
		{3, 2, 1}, // page shrank under the respondent
		{5, 1, 0},
		{0, 0, 0},
		{-1, 3, 0},
	}

	for _, tt := range tests {
		if got := ClampPage(tt.current, tt.totalPages); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.current, tt.totalPages, got, tt.want)
		}
	}
}
