package tui

import (
	"testing"

	"github.com/muxman/muxman/internal/model"
)

func TestFilterSessions(t *testing.T) {
	sessions := []model.Session{
		{Name: "work"},
		{Name: "scratch"},
		{Name: "Workbench"},
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"empty matches all", "", []int{0, 1, 2}},
		{"exact", "scratch", []int{1}},
		{"case-insensitive", "work", []int{0, 2}},
		{"fuzzy subsequence", "wb", []int{2}},
		{"no match", "zzz", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterSessions(sessions, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
