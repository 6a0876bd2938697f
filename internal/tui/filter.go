package tui

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/muxman/muxman/internal/model"
)

// filterSessions returns the indices of sessions matching the fuzzy
// query, in snapshot order. An empty query matches everything.
func filterSessions(sessions []model.Session, query string) []int {
	indices := make([]int, 0, len(sessions))
	for i, sess := range sessions {
		if query == "" || fuzzy.MatchFold(query, sess.Name) {
			indices = append(indices, i)
		}
	}
	return indices
}
