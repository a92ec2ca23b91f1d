package daily

import (
	"encoding/json"
	"strings"

	"github.com/SimonScharf/GoodWordsDictionary/internal"
)

// Record is the selection state for one calendar date.
//
// SelectedIndex is written for compatibility with history logs produced by
// earlier releases, which memoized the day's word by its position in the
// catalogue. SelectedTerm is authoritative whenever it is set.
type Record struct {
	Date          string   `json:"date"`
	ShownTerms    []string `json:"shownWords"`
	SelectedTerm  string   `json:"currentWord,omitempty"`
	SelectedIndex *int     `json:"currentWordIndex,omitempty"`
}

func newRecord(date string) Record {
	return Record{Date: date, ShownTerms: []string{}}
}

// HasSelection reports whether a word has been picked for the record's date
func (r *Record) HasSelection() bool {
	return r.SelectedTerm != "" || r.SelectedIndex != nil
}

// Selected returns the term picked for the record's date, or "" when none
// was picked. Index-only records report the last shown term.
func (r *Record) Selected() string {
	if r.SelectedTerm != "" {
		return r.SelectedTerm
	}
	if r.SelectedIndex != nil {
		return r.lastShown()
	}
	return ""
}

func (r *Record) shownSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.ShownTerms))
	for _, shown := range r.ShownTerms {
		set[internal.NormalizeTerm(shown)] = struct{}{}
	}
	return set
}

// lastShown returns the most recently appended term
func (r *Record) lastShown() string {
	if len(r.ShownTerms) == 0 {
		return ""
	}
	return r.ShownTerms[len(r.ShownTerms)-1]
}

func (r *Record) clearSelection() {
	r.SelectedTerm = ""
	r.SelectedIndex = nil
}

func (r *Record) selectWord(term string, index int) {
	r.SelectedTerm = term
	r.SelectedIndex = &index
	r.ShownTerms = append(r.ShownTerms, term)
}

// History is the insertion-ordered log of daily records, at most one per date.
type History []Record

// Find returns the position of the record for date, or -1
func (h History) Find(date string) int {
	for i := range h {
		if h[i].Date == date {
			return i
		}
	}
	return -1
}

// ensure returns the position of the record for date, appending an empty
// record when none exists. created reports whether a record was appended.
func (h *History) ensure(date string) (pos int, created bool) {
	if pos = h.Find(date); pos >= 0 {
		return pos, false
	}
	*h = append(*h, newRecord(date))
	return len(*h) - 1, true
}

// DecodeHistory parses a serialized history log. Duplicate dates are
// collapsed onto the first occurrence.
func DecodeHistory(data []byte) (History, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return History{}, nil
	}

	var raw History
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(History, 0, len(raw))
	for _, rec := range raw {
		if out.Find(rec.Date) >= 0 {
			continue
		}
		if rec.ShownTerms == nil {
			rec.ShownTerms = []string{}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Encode serializes the history log as a JSON array of records
func (h History) Encode() ([]byte, error) {
	if h == nil {
		h = History{}
	}
	return json.Marshal(h)
}
