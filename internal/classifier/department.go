package classifier

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

const (
	exactMatchPoints = 2
	stemMatchPoints  = 1
)

// department picks the best-scoring department for the corpus and reports
// how many of its keywords matched literally. Each keyword earns 2 points
// when it is a substring of the corpus and 1 more when its stem is a
// substring of the stemmed corpus; the sum is multiplied by the
// department's importance. Only a strictly higher score displaces the
// current leader, so ties go to the earlier department. With no score at
// all the fallback department wins with zero matches.
func (v *Vocabulary) department(text string, present map[string]struct{}) (string, int) {
	stemPresent := v.stems.present(stemCorpus(text))

	best, bestScore, bestExact := v.data.FallbackDepartment, 0, 0
	for i, d := range v.data.Departments {
		exact, stemmed := 0, 0
		for j, kw := range d.Keywords {
			if _, ok := present[kw]; ok {
				exact++
			}
			if _, ok := stemPresent[v.deptStems[i][j]]; ok {
				stemmed++
			}
		}
		score := (exact*exactMatchPoints + stemmed*stemMatchPoints) * v.Importance(d.Name)
		if score > bestScore {
			best, bestScore, bestExact = d.Name, score, exact
		}
	}
	return best, bestExact
}

// stemCorpus stems every space-separated token and rejoins them with
// single spaces. Tokens keep any attached punctuation.
func stemCorpus(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = porterstemmer.StemString(w)
		}
	}
	return strings.Join(words, " ")
}
