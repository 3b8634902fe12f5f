package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/jonesrussell/complaint-triage/internal/domain"
)

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	order := []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if domain.Priority("Urgent").Valid() {
		t.Error("unknown priority reported valid")
	}
}

func TestDefaultResult_SerializesEmptyLists(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(domain.DefaultResult("Public Works"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"urgency_keywords", "tags"} {
		list, ok := got[key].([]any)
		if !ok || len(list) != 0 {
			t.Errorf("%s = %v, want []", key, got[key])
		}
	}
	if got["priority"] != "Low" || got["sentiment"] != "Neutral" {
		t.Errorf("unexpected defaults: %v", got)
	}
}
