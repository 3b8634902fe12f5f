package classifier

import (
	"strings"

	"github.com/jonesrussell/complaint-triage/internal/domain"
)

// Sentiment band edges. Scores strictly beyond them leave Neutral.
const (
	positiveAbove = 1
	negativeBelow = -1
)

// tokenPunctuation is blanked out before splitting. Apostrophes survive so
// negators like "don't" stay whole.
var tokenPunctuation = strings.NewReplacer(
	"\n", " ", "\r", " ", "\t", " ",
	".", " ", ",", " ", "/", " ", "#", " ", "!", " ", "?", " ",
	"$", " ", "%", " ", "^", " ", "&", " ", "*", " ", ";", " ",
	":", " ", "{", " ", "}", " ", "=", " ", "_", " ", "`", " ",
	"\"", " ", "~", " ", "(", " ", ")", " ",
)

func sentimentTokens(lowered string) []string {
	return strings.Fields(tokenPunctuation.Replace(lowered))
}

// sentimentScore sums lexicon weights over the tokens of a lowercased
// corpus. A weight is negated when the previous token is a negator.
func (v *Vocabulary) sentimentScore(lowered string) int {
	tokens := sentimentTokens(lowered)
	score := 0
	for i, tok := range tokens {
		w, ok := v.data.Sentiment[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if _, neg := v.negators[tokens[i-1]]; neg {
				w = -w
			}
		}
		score += w
	}
	return score
}

// sentimentBand maps a lexicon score to a band. Strong (beyond ±3) and
// mild scores land in the same band.
func sentimentBand(score int) domain.Sentiment {
	switch {
	case score > positiveAbove:
		return domain.SentimentPositive
	case score < negativeBelow:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
