package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url    string
		want   Type
		wantID int
		ok     bool
	}{
		{"https://ci.nodejs.org/job/node-test-pull-request/12345/", PR, 12345, true},
		{"https://ci.nodejs.org/job/node-test-commit/900/", Commit, 900, true},
		{"https://ci.nodejs.org/job/node-test-commit-nointl/33/", NoIntl, 33, true},
		{"https://ci.nodejs.org/job/node-test-commit-v8-linux/4/", V8, 4, true},
		{"https://ci.nodejs.org/job/node-test-commit-lite/5/", LiteCommit, 5, true},
		{"https://ci.nodejs.org/job/citgm-smoker/3301/", CITGM, 3301, true},
		{"https://ci.nodejs.org/job/benchmark-node-micro-benchmarks/1400/", Benchmark, 1400, true},
		{"https://ci.nodejs.org/job/libuv-test-commit/2000/", Libuv, 2000, true},
		{"https://ci.nodejs.org/job/node-test-linter/77/", Linter, 77, true},
		{"https://ci.nodejs.org/blue/organizations/jenkins/x/job/node-test-pull-request-lite-pipeline/8/pipeline", LitePRPipeline, 8, true},
		{"https://ci.nodejs.org/job/node-test-pull-request-lite-pipeline/8/", "", 0, false},
		{"https://ci.nodejs.org/computer/test-azure-1/", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ref, ok := ParseURL(tt.url)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, ref.Type)
			assert.Equal(t, tt.wantID, ref.JobID)
		})
	}
}

func TestMine(t *testing.T) {
	thread := []Entry{
		{Body: "Please review", PublishedAt: t0},
		{
			Body: "CI: https://ci.nodejs.org/job/node-test-pull-request/100/\n" +
				"CITGM: https://ci.nodejs.org/job/citgm-smoker/7/",
			PublishedAt: t0.Add(time.Hour),
		},
		{Body: "Ignored mirror //ci.example.org/job/node-test-pull-request/999/", PublishedAt: t0.Add(2 * time.Hour)},
		{Body: "Resumed https://ci.nodejs.org/job/node-test-pull-request/101/ (rebuild)", PublishedAt: t0.Add(3 * time.Hour)},
	}

	refs := Mine(thread)
	require.Len(t, refs, 2)

	pr := refs[PR]
	assert.Equal(t, 101, pr.JobID)
	assert.Equal(t, "https://ci.nodejs.org/job/node-test-pull-request/101/", pr.Link)
	assert.Equal(t, t0.Add(3*time.Hour), pr.Date)

	assert.Equal(t, 7, refs[CITGM].JobID)
}

func TestMine_EarlierEntryDoesNotReplace(t *testing.T) {
	thread := []Entry{
		{Body: "https://ci.nodejs.org/job/node-test-pull-request/200/", PublishedAt: t0.Add(time.Hour)},
		{Body: "https://ci.nodejs.org/job/node-test-pull-request/150/", PublishedAt: t0},
		{Body: "https://ci.nodejs.org/job/node-test-pull-request/201/", PublishedAt: t0.Add(time.Hour)},
	}

	assert.Equal(t, 200, Mine(thread)[PR].JobID)
}

func TestMine_CommitDoesNotSwallowVariants(t *testing.T) {
	thread := []Entry{{
		Body:        "https://ci.nodejs.org/job/node-test-commit-nointl/5/ and https://ci.nodejs.org/job/node-test-commit-v8-linux/6/",
		PublishedAt: t0,
	}}

	refs := Mine(thread)
	assert.NotContains(t, refs, Commit)
	assert.Equal(t, 5, refs[NoIntl].JobID)
	assert.Equal(t, 6, refs[V8].JobID)
}

func TestMine_Empty(t *testing.T) {
	assert.Empty(t, Mine(nil))
	assert.Empty(t, Mine([]Entry{{Body: "LGTM", PublishedAt: t0}}))
}

func TestSorted(t *testing.T) {
	refs := map[Type]Reference{
		Linter: {Type: Linter, JobID: 3},
		CITGM:  {Type: CITGM, JobID: 1},
		PR:     {Type: PR, JobID: 2},
	}

	sorted := Sorted(refs)
	require.Len(t, sorted, 3)
	assert.Equal(t, []Type{CITGM, PR, Linter}, []Type{sorted[0].Type, sorted[1].Type, sorted[2].Type})
}
