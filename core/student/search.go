package student

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// minimum similarity for a fuzzy roster match
const searchMinRatio = .5

type scored struct {
	student Student
	ratio   float64
}

// rankMatches orders roster hits for a lowered query: substring matches
// first, then fuzzy name matches by similarity.
func rankMatches(students []Student, query string) []Student {
	if query == "" {
		return students
	}

	var hits []scored
	for _, s := range students {
		name := strings.ToLower(s.FullName())
		if strings.Contains(name, query) || strings.Contains(s.ID, query) {
			hits = append(hits, scored{student: s, ratio: 1})
			continue
		}
		if r := similarity(name, query); r >= searchMinRatio {
			hits = append(hits, scored{student: s, ratio: r})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })

	out := make([]Student, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.student)
	}
	return out
}

func similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
