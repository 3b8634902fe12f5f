package classifier

import (
	"testing"

	"github.com/jonesrussell/complaint-triage/internal/domain"
)

func TestClassify_RecoversToDefault(t *testing.T) {
	t.Parallel()

	// A zero Vocabulary has no automata; scoring dereferences nil.
	c := New(&Vocabulary{data: VocabularyData{FallbackDepartment: "Public Works"}}, nil, nil, Config{})
	got := c.Classify("Gas leak", "urgent")

	if !got.Analysis.Fallback {
		t.Fatal("expected fallback result")
	}
	if got.Priority != domain.PriorityLow || got.Department != "Public Works" || got.Confidence != domain.DefaultConfidence {
		t.Errorf("unexpected fallback result %+v", got)
	}
}

func TestStemCorpus(t *testing.T) {
	t.Parallel()

	got := stemCorpus("neighbors disturbing  parties")
	want := "neighbor disturb  parti"
	if got != want {
		t.Errorf("stemCorpus = %q, want %q", got, want)
	}
}

func TestPriorityTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score   float64
		matches int
		want    domain.Priority
	}{
		{12, 0, domain.PriorityCritical},
		{0, 4, domain.PriorityCritical},
		{11.99, 3, domain.PriorityHigh},
		{8, 0, domain.PriorityHigh},
		{7.99, 1, domain.PriorityMedium},
		{4, 0, domain.PriorityMedium},
		{3.99, 0, domain.PriorityLow},
	}
	for _, tt := range tests {
		if got := priorityTier(tt.score, tt.matches); got != tt.want {
			t.Errorf("priorityTier(%v, %d) = %s, want %s", tt.score, tt.matches, got, tt.want)
		}
	}
}
