package records

import (
	"errors"
	"testing"
)

func sample() *Collection {
	return NewCollection([]Record{
		{Activity: "A", Seconds: 10},
		{Activity: "B", Seconds: 20},
		{Activity: "A", Seconds: 30},
		{Activity: "C", Seconds: 5},
		{Activity: "B", Seconds: 25},
	})
}

func TestUnifyIdempotent(t *testing.T) {
	c := sample()
	if err := c.Unify("A", "B", "A"); err != nil {
		t.Fatal(err)
	}
	if err := c.Unify("A", "B", "A"); err != nil {
		t.Fatal(err)
	}
	counts := c.Counts()
	if counts["A"] != 4 {
		t.Fatalf("expected 4 records for A, got %d", counts["A"])
	}
	if _, ok := counts["B"]; ok {
		t.Fatalf("B should be gone")
	}
	if c.Len() != 5 {
		t.Fatalf("record count changed: %d", c.Len())
	}
	if c.Mapping["A"] != "A" || c.Mapping["B"] != "A" {
		t.Fatalf("unexpected mapping: %v", c.Mapping)
	}
	if len(c.History) != 1 {
		t.Fatalf("repeated merge should not grow history: %d", len(c.History))
	}
}

func TestUnifyCustomName(t *testing.T) {
	c := sample()
	if err := c.Unify("A", "B", "  Packing  "); err != nil {
		t.Fatal(err)
	}
	got := c.Activities()
	want := []string{"Packing", "C"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("activities = %v, want %v", got, want)
	}
	if src := c.Sources("Packing"); len(src) != 2 || src[0] != "A" || src[1] != "B" {
		t.Fatalf("sources = %v", src)
	}
}

func TestUnifyRejectsEmptyName(t *testing.T) {
	c := sample()
	err := c.Unify("A", "B", "   ")
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if c.Counts()["B"] != 2 || len(c.Mapping) != 0 {
		t.Fatalf("state mutated on failed unify")
	}
}

func TestReplaceReplaysHistory(t *testing.T) {
	c := sample()
	if err := c.Unify("A", "B", "AB"); err != nil {
		t.Fatal(err)
	}
	if err := c.Unify("AB", "C", "ABC"); err != nil {
		t.Fatal(err)
	}
	c.Replace([]Record{{Activity: "B", Seconds: 1}, {Activity: "C", Seconds: 2}, {Activity: "D", Seconds: 3}})
	counts := c.Counts()
	if counts["ABC"] != 2 || counts["D"] != 1 {
		t.Fatalf("unexpected counts after replay: %v", counts)
	}
}

func TestValuesHelpers(t *testing.T) {
	c := sample()
	if v := c.Values("A"); len(v) != 2 || v[0] != 10 || v[1] != 30 {
		t.Fatalf("values(A) = %v", v)
	}
	if v := c.ValuesFor(map[string]bool{"B": true, "C": true}); len(v) != 3 {
		t.Fatalf("valuesFor = %v", v)
	}
	if !c.Has("C") || c.Has("Z") {
		t.Fatal("Has mismatch")
	}
	if got := c.ByActivity()["B"]; len(got) != 2 || got[1] != 25 {
		t.Fatalf("byActivity(B) = %v", got)
	}
}
