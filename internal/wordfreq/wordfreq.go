// Package wordfreq produces term frequencies from extracted paragraph text
// for downstream analysis. It covers tokenization, stopword removal and
// top-N counting; rendering is left to consumers.
package wordfreq

import (
	"sort"
	"strings"
	"unicode"
)

// Config controls tokenization and filtering.
type Config struct {
	ExtraStopwords []string
	MinTokenLen    int
}

// DefaultConfig matches the reference preprocessing: tokens of two or more
// characters, english stopwords only.
func DefaultConfig() Config {
	return Config{MinTokenLen: 2}
}

// TermCount is one entry of a frequency table.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

var dashFold = strings.NewReplacer(
	"‐", "-", "‑", "-", "‒", "-",
	"–", "-", "—", "-", "−", "-",
)

// Count tokenizes the given texts and returns term frequencies. Tokens are
// lowercased, unicode dashes are folded so hyphenated compounds split
// consistently, and tokens without a letter are dropped.
func Count(texts []string, cfg Config) map[string]int {
	if cfg.MinTokenLen < 1 {
		cfg.MinTokenLen = 2
	}
	stops := stopwordSet(cfg.ExtraStopwords)

	freqs := make(map[string]int)
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			if len(tok) < cfg.MinTokenLen {
				continue
			}
			if stops[tok] {
				continue
			}
			freqs[tok]++
		}
	}
	return freqs
}

// Tokenize splits text into lowercase word tokens. Hyphens and slashes
// split compounds ("ml-based" yields "ml" and "based"), and purely numeric
// tokens are discarded.
func Tokenize(text string) []string {
	text = dashFold.Replace(strings.ToLower(text))
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := parts[:0:0]
	for _, p := range parts {
		if strings.ContainsFunc(p, unicode.IsLetter) {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Top returns the n most frequent terms, ordered by count descending and
// then term ascending, so output is deterministic across runs.
func Top(freqs map[string]int, n int) []TermCount {
	out := make([]TermCount, 0, len(freqs))
	for term, count := range freqs {
		out = append(out, TermCount{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func stopwordSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(englishStopwords)+len(extra))
	for _, w := range englishStopwords {
		set[w] = true
	}
	for _, w := range extra {
		set[strings.ToLower(w)] = true
	}
	return set
}

// englishStopwords is the closed-class word list applied before counting.
var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"cannot", "could", "did", "do", "does", "doing", "down", "during",
	"each", "few", "for", "from", "further", "had", "has", "have", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
	"more", "most", "my", "myself", "no", "nor", "not", "now", "of", "off",
	"on", "once", "only", "or", "other", "our", "ours", "ourselves", "out",
	"over", "own", "same", "shall", "she", "should", "so", "some", "such",
	"than", "that", "the", "their", "theirs", "them", "themselves", "then",
	"there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "very", "was", "we", "were", "what", "when",
	"where", "which", "while", "who", "whom", "why", "will", "with", "would",
	"you", "your", "yours", "yourself", "yourselves",
}
