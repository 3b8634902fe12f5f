package classifier_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
)

func TestDefaultVocabulary(t *testing.T) {
	t.Parallel()

	v, err := classifier.DefaultVocabulary()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Public Works", "Police Department", "Parks Department",
		"Code Enforcement", "Sanitation", "Fire Department",
	}, v.DepartmentNames())
	assert.Equal(t, "Public Works", v.FallbackDepartment())

	data := v.Data()
	assert.Len(t, data.Urgency, 49)
	assert.Equal(t, "urgent", data.Urgency[0])
	assert.Equal(t, "many", data.Urgency[len(data.Urgency)-1])
	assert.Len(t, data.Locations, 11)

	assert.Equal(t, 4, v.Importance("Fire Department"))
	assert.Equal(t, 2, v.Importance("Sanitation"))
	assert.Equal(t, 4, v.Importance("Safety"))
	assert.Equal(t, 1, v.Importance("Animal Control"))
}

func TestVocabulary_DataIsACopy(t *testing.T) {
	t.Parallel()

	v, err := classifier.DefaultVocabulary()
	require.NoError(t, err)

	data := v.Data()
	data.Urgency[0] = "mutated"
	data.Departments[0].Keywords[0] = "mutated"
	data.Importance["Public Works"] = 99

	fresh := v.Data()
	assert.Equal(t, "urgent", fresh.Urgency[0])
	assert.Equal(t, "road", fresh.Departments[0].Keywords[0])
	assert.Equal(t, 3, v.Importance("Public Works"))
}

func TestNewVocabulary_Validation(t *testing.T) {
	t.Parallel()

	_, err := classifier.NewVocabulary(classifier.VocabularyData{Urgency: []string{"urgent"}})
	assert.True(t, errors.Is(err, classifier.ErrEmptyVocabulary))

	_, err = classifier.NewVocabulary(classifier.VocabularyData{
		Departments: []classifier.DepartmentTerms{{Name: "Sanitation"}, {Name: "Sanitation"}},
	})
	assert.Error(t, err)

	_, err = classifier.NewVocabulary(classifier.VocabularyData{
		Departments: []classifier.DepartmentTerms{{Name: "  "}},
	})
	assert.Error(t, err)
}

func TestNewVocabulary_NormalizesTerms(t *testing.T) {
	t.Parallel()

	v, err := classifier.NewVocabulary(classifier.VocabularyData{
		Urgency:     []string{"  URGENT ", ""},
		Departments: []classifier.DepartmentTerms{{Name: " Sanitation ", Keywords: []string{"Trash"}}},
	})
	require.NoError(t, err)

	data := v.Data()
	assert.Equal(t, []string{"urgent"}, data.Urgency)
	assert.Equal(t, "Sanitation", data.Departments[0].Name)
	assert.Equal(t, []string{"trash"}, data.Departments[0].Keywords)
	assert.Equal(t, "Sanitation", v.FallbackDepartment(), "first department becomes the fallback")
}

func TestVocabulary_Fingerprint(t *testing.T) {
	t.Parallel()

	base := classifier.VocabularyData{
		Urgency:     []string{"urgent"},
		Departments: []classifier.DepartmentTerms{{Name: "Sanitation", Keywords: []string{"trash"}}},
		Sentiment:   map[string]int{"bad": -3, "good": 3},
	}
	a, err := classifier.NewVocabulary(base)
	require.NoError(t, err)
	b, err := classifier.NewVocabulary(base)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	base.Urgency = append(base.Urgency, "asap")
	c, err := classifier.NewVocabulary(base)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestLoadVocabulary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vocab.yml")
	body := `
fallback_department: Animal Control
urgency: [rabid, bite]
departments:
  - name: Animal Control
    keywords: [dog, raccoon, stray]
importance:
  Animal Control: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	v, err := classifier.LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Importance("Animal Control"))

	c := classifier.New(v, nil, nil, classifier.Config{})
	got := c.Classify("Stray dog", "It tried to bite my kid")
	assert.Equal(t, "Animal Control", got.Department)
	assert.Equal(t, []string{"bite"}, got.UrgencyKeywords)

	_, err = classifier.LoadVocabulary(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestParseVocabulary_SentimentOverlaysLexicon(t *testing.T) {
	t.Parallel()

	v, err := classifier.ParseVocabulary([]byte(`
departments:
  - name: Public Works
    keywords: [pothole]
sentiment:
  pothole: -2
  Bad: -1
`))
	require.NoError(t, err)

	sentiment := v.Data().Sentiment
	assert.Equal(t, -2, sentiment["pothole"], "file entries extend the lexicon")
	assert.Equal(t, -1, sentiment["bad"], "file entries override the lexicon")
	assert.Equal(t, -3, sentiment["furious"])

	got := classifier.New(v, nil, nil, classifier.Config{}).Classify("Pothole", "bad")
	assert.Equal(t, -3, got.Analysis.SentimentScore)
}

func TestParseVocabulary_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := classifier.ParseVocabulary([]byte("departments: {not: [a list"))
	assert.Error(t, err)
}
