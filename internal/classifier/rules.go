package classifier

import (
	"github.com/jonesrussell/complaint-triage/internal/domain"
)

// VocabularyFromRules builds a vocabulary from classification_rules rows.
// Rules are applied in the order given, so callers pass them highest
// priority first. Department rules sharing a TopicName are merged and the
// first positive importance wins. Sentiment words, negators and the
// fallback department come from base, which is usually the built-in
// vocabulary; base's fallback is kept only if a rule defines it.
func VocabularyFromRules(rules []domain.ClassificationRule, base VocabularyData) (*Vocabulary, error) {
	d := VocabularyData{
		Importance: map[string]int{},
		Negators:   base.Negators,
		Sentiment:  base.Sentiment,
	}

	deptIndex := map[string]int{}
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		switch r.RuleType {
		case domain.RuleTypeUrgency:
			d.Urgency = append(d.Urgency, r.Keywords...)
		case domain.RuleTypeLocation:
			d.Locations = append(d.Locations, r.Keywords...)
		case domain.RuleTypeDepartment:
			if r.TopicName == "" {
				continue
			}
			i, ok := deptIndex[r.TopicName]
			if !ok {
				i = len(d.Departments)
				deptIndex[r.TopicName] = i
				d.Departments = append(d.Departments, DepartmentTerms{Name: r.TopicName})
			}
			d.Departments[i].Keywords = append(d.Departments[i].Keywords, r.Keywords...)
			if _, set := d.Importance[r.TopicName]; !set && r.Importance > 0 {
				d.Importance[r.TopicName] = r.Importance
			}
		}
	}

	if _, ok := deptIndex[base.FallbackDepartment]; ok {
		d.FallbackDepartment = base.FallbackDepartment
	}
	return NewVocabulary(d)
}
