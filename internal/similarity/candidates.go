package similarity

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultThreshold is the minimum (exclusive) score for a candidate pair.
const DefaultThreshold = 0.70

// Status is the review state of a candidate pair.
type Status int

const (
	Pending Status = iota
	Unified
	Skipped
)

func (s Status) String() string {
	switch s {
	case Unified:
		return "unified"
	case Skipped:
		return "skipped"
	default:
		return "pending"
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON decodes a status name.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "pending":
		*s = Pending
	case "unified":
		*s = Unified
	case "skipped":
		*s = Skipped
	default:
		return fmt.Errorf("unknown candidate status %q", name)
	}
	return nil
}

// Candidate is a proposed pair of near-duplicate activity names.
type Candidate struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Score  float64 `json:"score"`
	Status Status  `json:"status"`
}

// Same reports whether c and o refer to the same unordered pair.
func (c Candidate) Same(o Candidate) bool {
	return (c.A == o.A && c.B == o.B) || (c.A == o.B && c.B == o.A)
}

// FindCandidates scores every unordered pair names[i], names[j] with i < j and keeps
// those scoring strictly above threshold, ordered by score descending. Ties keep
// the pair enumeration order.
func FindCandidates(names []string, threshold float64) []Candidate {
	var out []Candidate
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			score := Ratio(names[i], names[j])
			if score > threshold {
				out = append(out, Candidate{A: names[i], B: names[j], Score: score})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Carry copies the review status of pairs in prev onto matching pairs in next.
// Unified pairs no longer appear in next once their names have merged.
func Carry(prev, next []Candidate) []Candidate {
	for i := range next {
		for _, p := range prev {
			if p.Status == Skipped && next[i].Same(p) {
				next[i].Status = Skipped
				break
			}
		}
	}
	return next
}

// PendingOnly returns candidates still awaiting review.
func PendingOnly(cands []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Status == Pending {
			out = append(out, c)
		}
	}
	return out
}
