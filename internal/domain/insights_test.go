package domain_test

import (
	"slices"
	"testing"

	"github.com/jonesrussell/complaint-triage/internal/domain"
)

func TestRankCounts(t *testing.T) {
	t.Parallel()

	freq := map[string]int{"fire": 3, "broken": 5, "asap": 3, "many": 1}

	got := domain.RankCounts(freq, 3)
	want := []domain.Count{{Name: "broken", Count: 5}, {Name: "asap", Count: 3}, {Name: "fire", Count: 3}}
	if !slices.Equal(got, want) {
		t.Errorf("RankCounts(freq, 3) = %v, want %v", got, want)
	}
	if n := len(domain.RankCounts(freq, 0)); n != 4 {
		t.Errorf("RankCounts(freq, 0) kept %d, want 4", n)
	}
	if got := domain.RankCounts(nil, 5); len(got) != 0 {
		t.Errorf("RankCounts(nil, 5) = %v, want empty", got)
	}
}

func TestInsightsTopDepartments(t *testing.T) {
	t.Parallel()

	ins := domain.Insights{
		DepartmentDistribution: map[string]int{"Parks": 2, "Water Services": 5, "Fire Department": 2},
		TopUrgencyKeywords:     map[string]int{"urgent": 1},
	}

	got := ins.TopDepartments(2)
	want := []domain.Count{{Name: "Water Services", Count: 5}, {Name: "Fire Department", Count: 2}}
	if !slices.Equal(got, want) {
		t.Errorf("TopDepartments(2) = %v, want %v", got, want)
	}
	if got := ins.TopKeywords(10); !slices.Equal(got, []domain.Count{{Name: "urgent", Count: 1}}) {
		t.Errorf("TopKeywords(10) = %v", got)
	}
}
