package classifier

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yml
var defaultVocabularyYAML []byte

// ErrEmptyVocabulary is returned when a vocabulary has no departments.
var ErrEmptyVocabulary = errors.New("vocabulary has no departments")

const defaultImportance = 1

// DepartmentTerms is one department and its routing keywords.
type DepartmentTerms struct {
	Name     string   `json:"name"     yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// VocabularyData is the serializable form of a Vocabulary.
type VocabularyData struct {
	FallbackDepartment string            `json:"fallback_department" yaml:"fallback_department"`
	Urgency            []string          `json:"urgency"             yaml:"urgency"`
	Departments        []DepartmentTerms `json:"departments"         yaml:"departments"`
	Importance         map[string]int    `json:"importance"          yaml:"importance"`
	Locations          []string          `json:"locations"           yaml:"locations"`
	Negators           []string          `json:"negators"            yaml:"negators"`
	Sentiment          map[string]int    `json:"sentiment"           yaml:"sentiment"`
}

// Vocabulary is the immutable set of dictionaries a Classifier scores
// against, along with the automata built from them. It is safe for
// concurrent use.
type Vocabulary struct {
	data        VocabularyData
	fingerprint string

	terms     *termIndex // urgency, department and location terms
	stems     *termIndex // stemmed department keywords
	deptStems [][]string // parallel to data.Departments
	negators  map[string]struct{}
}

// NewVocabulary validates and indexes d. Terms are lowercased and
// trimmed; d itself is copied and not retained.
func NewVocabulary(d VocabularyData) (*Vocabulary, error) {
	data := normalizeData(d)
	if len(data.Departments) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if data.FallbackDepartment == "" {
		data.FallbackDepartment = data.Departments[0].Name
	}
	seenDept := make(map[string]struct{}, len(data.Departments))
	for _, dep := range data.Departments {
		if dep.Name == "" {
			return nil, errors.New("vocabulary department without a name")
		}
		if _, dup := seenDept[dep.Name]; dup {
			return nil, fmt.Errorf("vocabulary department %q listed twice", dep.Name)
		}
		seenDept[dep.Name] = struct{}{}
	}

	all := slices.Clone(data.Urgency)
	var stemmed []string
	deptStems := make([][]string, len(data.Departments))
	for i, dep := range data.Departments {
		all = append(all, dep.Keywords...)
		deptStems[i] = make([]string, len(dep.Keywords))
		for j, kw := range dep.Keywords {
			deptStems[i][j] = stemCorpus(kw)
		}
		stemmed = append(stemmed, deptStems[i]...)
	}
	all = append(all, data.Locations...)

	negators := make(map[string]struct{}, len(data.Negators))
	for _, n := range data.Negators {
		negators[n] = struct{}{}
	}

	fp, err := fingerprint(data)
	if err != nil {
		return nil, err
	}

	return &Vocabulary{
		data:        data,
		fingerprint: fp,
		terms:       newTermIndex(all),
		stems:       newTermIndex(stemmed),
		deptStems:   deptStems,
		negators:    negators,
	}, nil
}

// ParseVocabulary decodes YAML into a Vocabulary. Its sentiment entries
// are layered over the AFINN-165 lexicon, so a file only lists additions
// and corrections.
func ParseVocabulary(raw []byte) (*Vocabulary, error) {
	var d VocabularyData
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	sentiment, err := withLexicon(d.Sentiment)
	if err != nil {
		return nil, err
	}
	d.Sentiment = sentiment
	return NewVocabulary(d)
}

// LoadVocabulary reads a YAML vocabulary file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return ParseVocabulary(raw)
}

var (
	defaultVocab     *Vocabulary
	defaultVocabErr  error
	defaultVocabOnce sync.Once
)

// DefaultVocabulary returns the built-in vocabulary. It is parsed once.
func DefaultVocabulary() (*Vocabulary, error) {
	defaultVocabOnce.Do(func() {
		defaultVocab, defaultVocabErr = ParseVocabulary(defaultVocabularyYAML)
	})
	return defaultVocab, defaultVocabErr
}

// Data returns a deep copy of the dictionaries.
func (v *Vocabulary) Data() VocabularyData {
	return cloneData(v.data)
}

// Fingerprint identifies the vocabulary contents. Equal dictionaries give
// equal fingerprints.
func (v *Vocabulary) Fingerprint() string { return v.fingerprint }

// FallbackDepartment is assigned when no department scores.
func (v *Vocabulary) FallbackDepartment() string { return v.data.FallbackDepartment }

// DepartmentNames returns department names in scoring order.
func (v *Vocabulary) DepartmentNames() []string {
	names := make([]string, len(v.data.Departments))
	for i, d := range v.data.Departments {
		names[i] = d.Name
	}
	return names
}

// Importance returns the score multiplier for a department.
func (v *Vocabulary) Importance(department string) int {
	if w, ok := v.data.Importance[department]; ok {
		return w
	}
	return defaultImportance
}

func normalizeTerms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeData(d VocabularyData) VocabularyData {
	out := VocabularyData{
		FallbackDepartment: strings.TrimSpace(d.FallbackDepartment),
		Urgency:            normalizeTerms(d.Urgency),
		Locations:          normalizeTerms(d.Locations),
		Negators:           normalizeTerms(d.Negators),
		Importance:         maps.Clone(d.Importance),
		Sentiment:          make(map[string]int, len(d.Sentiment)),
	}
	if out.Importance == nil {
		out.Importance = map[string]int{}
	}
	for w, s := range d.Sentiment {
		out.Sentiment[strings.ToLower(strings.TrimSpace(w))] = s
	}
	out.Departments = make([]DepartmentTerms, len(d.Departments))
	for i, dep := range d.Departments {
		out.Departments[i] = DepartmentTerms{
			Name:     strings.TrimSpace(dep.Name),
			Keywords: normalizeTerms(dep.Keywords),
		}
	}
	return out
}

func cloneData(d VocabularyData) VocabularyData {
	out := d
	out.Urgency = slices.Clone(d.Urgency)
	out.Locations = slices.Clone(d.Locations)
	out.Negators = slices.Clone(d.Negators)
	out.Importance = maps.Clone(d.Importance)
	out.Sentiment = maps.Clone(d.Sentiment)
	out.Departments = make([]DepartmentTerms, len(d.Departments))
	for i, dep := range d.Departments {
		out.Departments[i] = DepartmentTerms{Name: dep.Name, Keywords: slices.Clone(dep.Keywords)}
	}
	return out
}

// fingerprint hashes the canonical YAML form. yaml.v3 emits map keys
// sorted, so the encoding is stable.
func fingerprint(d VocabularyData) (string, error) {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode vocabulary: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}
