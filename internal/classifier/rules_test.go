package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/domain"
)

func TestVocabularyFromRules(t *testing.T) {
	t.Parallel()

	base, err := classifier.DefaultVocabulary()
	require.NoError(t, err)

	rules := []domain.ClassificationRule{
		{ID: 4, RuleType: domain.RuleTypeDepartment, TopicName: "Parks and Recreation",
			Keywords: []string{"Playground", "trail"}, Importance: 2, Enabled: true, Priority: 9},
		{ID: 1, RuleType: domain.RuleTypeUrgency, Keywords: []string{"flooding", "injured"}, Enabled: true, Priority: 8},
		{ID: 2, RuleType: domain.RuleTypeDepartment, TopicName: "Public Works",
			Keywords: []string{"pothole"}, Enabled: true, Priority: 5},
		{ID: 5, RuleType: domain.RuleTypeDepartment, TopicName: "Parks and Recreation",
			Keywords: []string{"bench"}, Importance: 7, Enabled: true, Priority: 3},
		{ID: 6, RuleType: domain.RuleTypeLocation, Keywords: []string{"library"}, Enabled: true, Priority: 1},
		{ID: 7, RuleType: domain.RuleTypeUrgency, Keywords: []string{"ignored"}, Enabled: false},
	}

	v, err := classifier.VocabularyFromRules(rules, base.Data())
	require.NoError(t, err)

	d := v.Data()
	assert.Equal(t, []string{"Parks and Recreation", "Public Works"}, v.DepartmentNames())
	assert.Equal(t, []string{"playground", "trail", "bench"}, d.Departments[0].Keywords)
	assert.Equal(t, []string{"flooding", "injured"}, d.Urgency)
	assert.Equal(t, []string{"library"}, d.Locations)
	assert.Equal(t, 2, v.Importance("Parks and Recreation"))
	assert.Equal(t, 1, v.Importance("Public Works"))
	assert.Equal(t, base.FallbackDepartment(), v.FallbackDepartment())
	assert.Equal(t, base.Data().Sentiment, d.Sentiment)

	c := classifier.New(v, nil, nil, classifier.Config{})
	res := c.Classify("Broken bench", "The bench at the library is broken and someone got injured")
	assert.Equal(t, "Parks and Recreation", res.Department)
	assert.Equal(t, []string{"injured"}, res.UrgencyKeywords)
	assert.Contains(t, res.Tags, "library")
}

func TestVocabularyFromRules_FallbackNotDefined(t *testing.T) {
	t.Parallel()

	rules := []domain.ClassificationRule{
		{RuleType: domain.RuleTypeDepartment, TopicName: "Animal Control", Keywords: []string{"dog"}, Enabled: true},
	}
	v, err := classifier.VocabularyFromRules(rules, classifier.VocabularyData{FallbackDepartment: "Public Works"})
	require.NoError(t, err)
	assert.Equal(t, "Animal Control", v.FallbackDepartment())
}

func TestVocabularyFromRules_NoDepartments(t *testing.T) {
	t.Parallel()

	rules := []domain.ClassificationRule{
		{RuleType: domain.RuleTypeUrgency, Keywords: []string{"urgent"}, Enabled: true},
	}
	_, err := classifier.VocabularyFromRules(rules, classifier.VocabularyData{})
	assert.ErrorIs(t, err, classifier.ErrEmptyVocabulary)
}
