package main

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/freeeve/titan-ai/internal/lookup"
)

func TestParseRecord(t *testing.T) {
	key, hexes, err := parseRecord(`{"turn":1,"hex":"100","roll":3,"height":4,"hexes":["3","24"]}`)
	if err != nil {
		t.Fatalf("parseRecord: %v", err)
	}
	if key != (lookup.Key{Turn: 1, Hex: "100", Roll: 3, Height: 4}) || !slices.Equal(hexes, []string{"3", "24"}) {
		t.Errorf("unexpected record %v %v", key, hexes)
	}

	tests := []struct {
		name, in string
	}{
		{"json", `{"turn":`},
		{"turn", `{"turn":0,"hex":"1","roll":1,"height":1,"hexes":["2"]}`},
		{"hex", `{"turn":1,"roll":1,"height":1,"hexes":["2"]}`},
		{"roll", `{"turn":1,"hex":"1","roll":7,"height":1,"hexes":["2"]}`},
		{"height", `{"turn":1,"hex":"1","roll":1,"hexes":["2"]}`},
		{"hexes", `{"turn":1,"hex":"1","roll":1,"height":1}`},
	}
	for _, tt := range tests {
		if _, _, err := parseRecord(tt.in); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestImportOpenings(t *testing.T) {
	input := strings.Join([]string{
		`{"turn":1,"hex":"100","roll":3,"height":4,"hexes":["3"]}`,
		``,
		`not json`,
		`{"turn":2,"hex":"400","roll":6,"height":4,"hexes":["100","16"]}`,
	}, "\n")
	book := lookup.NewMemory()
	imported, skipped, err := importOpenings(context.Background(), book, strings.NewReader(input))
	if err != nil {
		t.Fatalf("importOpenings: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Errorf("expected 2 imported and 1 skipped, got %d/%d", imported, skipped)
	}
	got, err := book.Lookup(context.Background(), lookup.Key{Turn: 2, Hex: "400", Roll: 6, Height: 4})
	if err != nil || !slices.Equal(got, []string{"100", "16"}) {
		t.Errorf("unexpected stored moves %v (%v)", got, err)
	}
}
