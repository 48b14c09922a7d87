package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisleuth/src/failure"
)

func jsFailure(file, url, machine string) failure.Failure {
	f := failure.New(failure.JSTestFailure, failure.Source{URL: url, BuiltOn: machine}, "not ok 1 "+file, 0)
	f.File = file
	f.Severity = "fail"
	return f
}

func TestRankFailures(t *testing.T) {
	failures := []failure.Failure{
		jsFailure("parallel/test-isolated", "https://ci/job/a/label=x/1/", "machine-x"),
		jsFailure("parallel/test-flaky-everywhere", "https://ci/job/a/label=y/1/", "machine-y"),
		failure.Unknown(failure.Source{URL: "https://ci/job/b/1/"}),
		jsFailure("parallel/test-flaky-everywhere", "https://ci/job/a/label=z/1/", "machine-z"),
		jsFailure("parallel/test-flaky-everywhere", "https://ci/job/a/label=w/1/", "machine-w"),
	}

	groups := RankFailures(failures)
	require.Len(t, groups, 3)

	tests := []struct {
		file  string
		tier  int
		count int
		rank  int
	}{
		{"parallel/test-flaky-everywhere", TierWidespread, 3, 1},
		{"parallel/test-isolated", TierIsolated, 1, 2},
		{"", TierSentinel, 1, 3},
	}
	for i, tt := range tests {
		g := groups[i]
		assert.Equal(t, tt.file, g.Example.File, "group %d", i)
		assert.Equal(t, tt.tier, g.Tier, "group %d", i)
		assert.Equal(t, tt.count, g.Count, "group %d", i)
		assert.Equal(t, tt.rank, g.Rank, "group %d", i)
	}

	assert.Len(t, groups[0].Machines, 3)
}

func TestRankFailures_Empty(t *testing.T) {
	assert.Nil(t, RankFailures(nil))
}

func TestRankFailures_StableWithinTier(t *testing.T) {
	failures := []failure.Failure{
		jsFailure("parallel/test-b", "u1", "m1"),
		jsFailure("parallel/test-a", "u2", "m2"),
	}
	groups := RankFailures(failures)
	require.Len(t, groups, 2)
	assert.Equal(t, "parallel/test-b", groups[0].Example.File, "equal groups keep first appearance order")
}

func TestCounts(t *testing.T) {
	groups := []Group{{Tier: TierWidespread}, {Tier: TierIsolated}, {Tier: TierIsolated}, {Tier: TierSentinel}}
	w, i, s := Counts(groups)
	assert.Equal(t, []int{1, 2, 1}, []int{w, i, s})
}
