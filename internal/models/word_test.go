package models

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	base := []Word{
		{Term: "apple", Definition: "a fruit"},
		{Term: "brave", Definition: "courageous"},
	}
	user := []Word{
		{Term: "Apple", Definition: "duplicate with different case"},
		{Term: "  ", Definition: "no term"},
		{Term: "candid", Definition: "frank"},
	}

	got := Merge(base, user)
	want := []Word{
		{Term: "apple", Definition: "a fruit"},
		{Term: "brave", Definition: "courageous"},
		{Term: "candid", Definition: "frank"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
}

func TestMerge_Empty(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Errorf("Merge() of nothing = %v, want empty", got)
	}
}

func TestWordKey(t *testing.T) {
	w := Word{Term: " Serendipity "}
	if w.Key() != "serendipity" {
		t.Errorf("Key() = %q, want serendipity", w.Key())
	}
}
