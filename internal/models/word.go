package models

import "github.com/SimonScharf/GoodWordsDictionary/internal"

// Word is a single dictionary entry.
// The JSON shape matches the dictionary file: {"word": ..., "definition": ...}.
type Word struct {
	Term       string `json:"word"`
	Definition string `json:"definition"`
}

// Key returns the case-insensitive identity of the word
func (w Word) Key() string {
	return internal.NormalizeTerm(w.Term)
}

// Merge concatenates word lists, keeping the first occurrence of every
// term (compared case-insensitively). Words with an empty term are dropped.
func Merge(lists ...[]Word) []Word {
	seen := make(map[string]struct{})
	var out []Word
	for _, list := range lists {
		for _, w := range list {
			key := w.Key()
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
