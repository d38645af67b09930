package similarity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioKnownValues(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"Pack Box", "pack box ", 16.0 / 17.0},
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"abc", "xyz", 0.0},
		{"SAME", "same", 1.0},
	}
	for _, tc := range cases {
		got := Ratio(tc.a, tc.b)
		assert.InDelta(t, tc.want, got, 1e-9, "%q vs %q", tc.a, tc.b)
	}
}

func TestRatioSymmetricOnSimpleInputs(t *testing.T) {
	t.Parallel()
	a, b := "Montagem Final", "Montagem final A"
	assert.InDelta(t, Ratio(a, b), Ratio(b, a), 1e-9)
}

func TestRatioLongInputsUsePopularHeuristic(t *testing.T) {
	t.Parallel()
	a := strings.Repeat("a", 300)
	b := strings.Repeat("a", 300)
	// every rune is popular in b, but the extension pass still aligns the strings
	assert.InDelta(t, 1.0, Ratio(a, b), 1e-9)
}

func TestFindCandidates(t *testing.T) {
	t.Parallel()
	got := FindCandidates([]string{"Pack Box", "Pack box ", "Ship Item"}, DefaultThreshold)
	require.Len(t, got, 1)
	assert.Equal(t, "Pack Box", got[0].A)
	assert.Equal(t, "Pack box ", got[0].B)
	assert.GreaterOrEqual(t, got[0].Score, 0.9)
	assert.Equal(t, Pending, got[0].Status)
}

func TestFindCandidatesOrderingAndStrictThreshold(t *testing.T) {
	t.Parallel()
	names := []string{"abcd", "bcde", "abce", "abcd "}
	got := FindCandidates(names, 0.75)
	// abcd/bcde scores exactly 0.75 and is excluded
	for _, c := range got {
		assert.Greater(t, c.Score, 0.75)
		assert.False(t, c.A == "abcd" && c.B == "bcde")
	}
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Empty(t, FindCandidates([]string{"solo"}, 0.1))
}

func TestFindCandidatesTiesKeepPairOrder(t *testing.T) {
	t.Parallel()
	// every pair scores 0.5
	got := FindCandidates([]string{"ab", "ac", "ad"}, 0.4)
	require.Len(t, got, 3)
	pairs := make([][2]string, len(got))
	for i, c := range got {
		assert.InDelta(t, 0.5, c.Score, 1e-9)
		pairs[i] = [2]string{c.A, c.B}
	}
	assert.Equal(t, [][2]string{{"ab", "ac"}, {"ab", "ad"}, {"ac", "ad"}}, pairs)
}

func TestCarryKeepsSkipped(t *testing.T) {
	t.Parallel()
	prev := []Candidate{{A: "x", B: "y", Status: Skipped}, {A: "p", B: "q", Status: Unified}}
	next := []Candidate{{A: "y", B: "x"}, {A: "m", B: "n"}}
	got := Carry(prev, next)
	assert.Equal(t, Skipped, got[0].Status)
	assert.Equal(t, Pending, got[1].Status)
	assert.Len(t, PendingOnly(got), 1)
}

func TestStatusJSON(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(Candidate{A: "a", B: "b", Score: 0.8, Status: Skipped})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"status":"skipped"`)
	var c Candidate
	require.NoError(t, json.Unmarshal(b, &c))
	assert.Equal(t, Skipped, c.Status)
	assert.Error(t, json.Unmarshal([]byte(`{"status":"maybe"}`), &c))
}

func TestDiffMarkup(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Pack Box", DiffMarkup("Pack Box", "Pack Box"))
	m := DiffMarkup("Pack Box", "Pack box")
	assert.True(t, strings.HasPrefix(m, "Pack "))
	assert.Contains(t, m, "[-")
	assert.Contains(t, m, "{+")
}
