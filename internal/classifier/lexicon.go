package classifier

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
)

//go:embed afinn-165.txt
var afinnWordList []byte

// afinn parses the embedded word list once.
var afinn = sync.OnceValues(func() (map[string]int, error) {
	return parseLexicon(afinnWordList)
})

// parseLexicon reads "word<TAB>weight" lines. Blank lines and lines
// starting with # are skipped.
func parseLexicon(raw []byte) (map[string]int, error) {
	lex := make(map[string]int, 3400)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, weight, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("lexicon line %d: missing tab", n)
		}
		w, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", n, err)
		}
		lex[strings.ToLower(strings.TrimSpace(word))] = w
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lex, nil
}

// withLexicon returns the AFINN-165 weights overlaid with overrides.
func withLexicon(overrides map[string]int) (map[string]int, error) {
	base, err := afinn()
	if err != nil {
		return nil, err
	}
	merged := maps.Clone(base)
	for w, s := range overrides {
		merged[strings.ToLower(strings.TrimSpace(w))] = s
	}
	return merged, nil
}
