package ai

import (
	"strings"
	"testing"
)

func TestValueRecorder_RunningTotal(t *testing.T) {
	var v ValueRecorder
	v.Add(10, "a")
	v.Add(0, "skipped")
	v.Add(-3, "b")

	if v.Value() != 7 {
		t.Errorf("expected total 7, got %d", v.Value())
	}
	entries := v.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Running != 7 || entries[1].Reason != "b" {
		t.Errorf("unexpected last entry %+v", entries[1])
	}
}

func TestValueRecorder_AddAllPrefixes(t *testing.T) {
	var inner, outer ValueRecorder
	inner.Add(5, "kill")
	outer.Add(1, "base")
	outer.AddAll(&inner, "Ogre ")
	outer.AddAll(nil, "ignored")

	if outer.Value() != 6 {
		t.Errorf("expected 6, got %d", outer.Value())
	}
	if !strings.Contains(outer.String(), "Ogre kill: +5 (=6)") {
		t.Errorf("unexpected rendering %q", outer.String())
	}
}
