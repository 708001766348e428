package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyMatcher(t *testing.T) {
	items := []string{"alpha", "alphabet", "beta", "Alps"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query keeps everything", query: "", want: items},
		{name: "prefix", query: "alp", want: []string{"alpha", "alphabet", "Alps"}},
		{name: "subsequence", query: "abt", want: []string{"alphabet"}},
		{name: "no match", query: "xyz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyMatcher{}.Filter(items, tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuzzyMatcherPreservesOrderAndInput(t *testing.T) {
	items := []string{"zeta-alpha", "alpha"}
	got := FuzzyMatcher{}.Filter(items, "alpha")
	assert.Equal(t, []string{"zeta-alpha", "alpha"}, got)

	// the result must not alias the input
	all := FuzzyMatcher{}.Filter(items, "")
	all[0] = "changed"
	assert.Equal(t, "zeta-alpha", items[0])
}

func TestFuzzyMatcherRanked(t *testing.T) {
	items := []string{"a-l-p-h-a", "alpha"}
	got := FuzzyMatcher{Ranked: true}.Filter(items, "alpha")
	assert.ElementsMatch(t, items, got)
	assert.Equal(t, "alpha", got[0], "contiguous match scores higher")
}
