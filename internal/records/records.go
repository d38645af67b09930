package records

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidName is returned when a unification target name is empty.
var ErrInvalidName = errors.New("invalid activity name")

// Record is one timed observation of an activity.
type Record struct {
	Activity string  `json:"activity"`
	Seconds  float64 `json:"seconds"`
}

// Unification is one applied merge, kept in order so it can be replayed.
type Unification struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Chosen string `json:"chosen"`
}

// Collection owns the live records and the accumulated unification mapping.
type Collection struct {
	Records []Record `json:"records"`
	// Mapping records original name -> canonical name across all merges.
	Mapping map[string]string `json:"mapping"`
	History []Unification     `json:"history"`
}

// NewCollection wraps recs in an empty-mapping collection.
func NewCollection(recs []Record) *Collection {
	return &Collection{Records: recs, Mapping: map[string]string{}}
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.Records) }

// Unify rewrites every record labelled a or b to chosen and records both
// names in the mapping. Reapplying an identical merge is a no-op on records.
func (c *Collection) Unify(a, b, chosen string) error {
	chosen = strings.TrimSpace(chosen)
	if chosen == "" {
		return fmt.Errorf("unify %q and %q: empty target: %w", a, b, ErrInvalidName)
	}
	if a == "" || b == "" {
		return fmt.Errorf("unify: empty source name: %w", ErrInvalidName)
	}
	c.apply(a, b, chosen)
	if c.Mapping == nil {
		c.Mapping = map[string]string{}
	}
	c.Mapping[a] = chosen
	c.Mapping[b] = chosen
	u := Unification{A: a, B: b, Chosen: chosen}
	if n := len(c.History); n == 0 || c.History[n-1] != u {
		c.History = append(c.History, u)
	}
	return nil
}

func (c *Collection) apply(a, b, chosen string) {
	for i := range c.Records {
		if act := c.Records[i].Activity; act == a || act == b {
			c.Records[i].Activity = chosen
		}
	}
}

// Replace swaps in freshly ingested records and replays the merge history
// over them so canonical names survive a re-ingest.
func (c *Collection) Replace(recs []Record) {
	c.Records = recs
	for _, u := range c.History {
		c.apply(u.A, u.B, u.Chosen)
	}
}

// ClearUnifications forgets the mapping and history. Records keep their current labels.
func (c *Collection) ClearUnifications() {
	c.Mapping = map[string]string{}
	c.History = nil
}

// Activities returns distinct activity names in first-seen order.
func (c *Collection) Activities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.Records {
		if !seen[r.Activity] {
			seen[r.Activity] = true
			out = append(out, r.Activity)
		}
	}
	return out
}

// Has reports whether any record carries the activity label.
func (c *Collection) Has(activity string) bool {
	for _, r := range c.Records {
		if r.Activity == activity {
			return true
		}
	}
	return false
}

// Counts returns the number of records per activity.
func (c *Collection) Counts() map[string]int {
	out := make(map[string]int)
	for _, r := range c.Records {
		out[r.Activity]++
	}
	return out
}

// ByActivity returns elapsed seconds per activity, in record order.
func (c *Collection) ByActivity() map[string][]float64 {
	out := make(map[string][]float64)
	for _, r := range c.Records {
		out[r.Activity] = append(out[r.Activity], r.Seconds)
	}
	return out
}

// Values returns the elapsed seconds recorded for one activity.
func (c *Collection) Values(activity string) []float64 {
	var out []float64
	for _, r := range c.Records {
		if r.Activity == activity {
			out = append(out, r.Seconds)
		}
	}
	return out
}

// ValuesFor returns the elapsed seconds of every record whose activity is in set.
func (c *Collection) ValuesFor(set map[string]bool) []float64 {
	var out []float64
	for _, r := range c.Records {
		if set[r.Activity] {
			out = append(out, r.Seconds)
		}
	}
	return out
}

// Sources returns the original names that were merged into canonical.
func (c *Collection) Sources(canonical string) []string {
	var out []string
	for orig, canon := range c.Mapping {
		if canon == canonical && orig != canonical {
			out = append(out, orig)
		}
	}
	sort.Strings(out)
	return out
}
