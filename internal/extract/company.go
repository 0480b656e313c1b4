// Package extract holds the pure heuristics that pull structured hints out of
// article text and HTML. Every function returns an empty result on no match.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are capitalized words that start headlines or name things other
// than companies. Compared case-insensitively.
var stopWords = wordSet(`
		a an the this that these those its it our your their his her my we you they
		how why what when where who which is are was were be will can
		and or but for from with without into onto over under after before about at by of on in to up
		new exclusive breaking report update watch live opinion analysis interview podcast video
		startup startups company companies founder founders ceo cto coo cfo co-founder cofounder
		raises raised raise secures secured lands closes closed announces announced launches launched
		funding round seed pre-seed series investment investors investor venture capital vc million billion
		monday tuesday wednesday thursday friday saturday sunday
		january february march april may june july august september october november december
		jan feb mar apr jun jul aug sep sept oct nov dec
		inc llc ltd corp
		ai saas fintech healthtech edtech
	`)

func wordSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(list) {
		set[w] = struct{}{}
	}
	return set
}

// minCandidateLen drops single-letter matches such as initials.
const minCandidateLen = 2

// CompanyNames returns runs of capitalized words in text, with stop words
// removed, in order of first appearance and without duplicates. Sentence
// punctuation ends a run.
func CompanyNames(text string) []string {
	var (
		candidates []string
		seen       = make(map[string]struct{})
		run        []string
	)

	flush := func() {
		if len(run) == 0 {
			return
		}
		name := strings.Join(run, " ")
		run = run[:0]
		if utf8.RuneCountInString(name) < minCandidateLen {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		candidates = append(candidates, name)
	}

	for _, raw := range strings.Fields(text) {
		word, endsRun := cleanToken(raw)

		switch {
		case word == "" || !isCapitalized(word):
			flush()
		case isStopWord(word):
			flush()
		default:
			run = append(run, word)
		}

		if endsRun {
			flush()
		}
	}
	flush()

	return candidates
}

// cleanToken trims surrounding punctuation and possessives. The boolean reports
// whether the raw token closed a clause.
func cleanToken(raw string) (string, bool) {
	last, _ := utf8.DecodeLastRuneInString(raw)
	endsRun := strings.ContainsRune(".,;:!?)\"”", last)

	word := strings.TrimFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, suffix := range []string{"'s", "’s"} {
		word = strings.TrimSuffix(word, suffix)
	}

	return word, endsRun
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func isStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}
