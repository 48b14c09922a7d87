// Package jobs finds the latest CI job of each kind linked from a discussion
// thread.
package jobs

import (
	"regexp"
	"strconv"
	"time"
)

// Type tags a kind of Jenkins job.
type Type string

const (
	CITGM          Type = "CITGM"
	PR             Type = "PR"
	Commit         Type = "COMMIT"
	Benchmark      Type = "BENCHMARK"
	Libuv          Type = "LIBUV"
	NoIntl         Type = "NOINTL"
	V8             Type = "V8"
	Linter         Type = "LINTER"
	LitePRPipeline Type = "LITE_PR_PIPELINE"
	LiteCommit     Type = "LITE_COMMIT"
)

// JobType describes how to recognise one kind of job in a URL.
type JobType struct {
	Type    Type
	Name    string
	JobName string
	Pattern *regexp.Regexp
}

func jobType(t Type, name, jobName string) JobType {
	return JobType{
		Type:    t,
		Name:    name,
		JobName: jobName,
		Pattern: regexp.MustCompile(`job/` + regexp.QuoteMeta(jobName) + `/(\d+)`),
	}
}

// Types lists every known job type. Listing order is stable.
var Types = []JobType{
	jobType(CITGM, "CITGM", "citgm-smoker"),
	jobType(PR, "Full PR", "node-test-pull-request"),
	jobType(Commit, "Commit", "node-test-commit"),
	jobType(Benchmark, "Benchmark", "benchmark-node-micro-benchmarks"),
	jobType(Libuv, "libuv", "libuv-test-commit"),
	jobType(NoIntl, "No Intl", "node-test-commit-nointl"),
	jobType(V8, "V8", "node-test-commit-v8-linux"),
	jobType(Linter, "Linter", "node-test-linter"),
	{
		Type:    LitePRPipeline,
		Name:    "Lite PR Pipeline",
		JobName: "node-test-pull-request-lite-pipeline",
		Pattern: regexp.MustCompile(`job/node-test-pull-request-lite-pipeline/(\d+)/pipeline`),
	},
	jobType(LiteCommit, "Lite Commit", "node-test-commit-lite"),
}

// Lookup returns the JobType for t.
func Lookup(t Type) (JobType, bool) {
	for _, jt := range Types {
		if jt.Type == t {
			return jt, true
		}
	}
	return JobType{}, false
}

// Reference is one job mentioned in a thread.
type Reference struct {
	Type  Type      `json:"type"`
	Link  string    `json:"link"`
	JobID int       `json:"jobid"`
	Date  time.Time `json:"date"`
}

// ParseURL recovers the job type and build number from a Jenkins URL.
func ParseURL(link string) (Reference, bool) {
	for _, jt := range Types {
		m := jt.Pattern.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return Reference{Type: jt.Type, Link: link, JobID: id}, true
	}
	return Reference{}, false
}
