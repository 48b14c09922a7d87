// Package ci resolves Jenkins builds into flattened lists of classified
// failures.
//
// A top-level build (pull request or commit) fans out into its failed
// sub-builds, which fan out into matrix runs, down to leaves whose console
// output is classified. Independent children resolve concurrently and the
// flattened output keeps the order of the children.
package ci

import (
	"encoding/json"

	"cisleuth/src/failure"
)

// Result is a Jenkins build result.
type Result string

const (
	Pending  Result = "PENDING"
	Success  Result = "SUCCESS"
	Failure  Result = "FAILURE"
	Aborted  Result = "ABORTED"
	Unstable Result = "UNSTABLE"
)

// UnmarshalJSON maps Jenkins' null result (still running) to Pending.
func (r *Result) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*r = Pending
		return nil
	}
	*r = Result(*s)
	return nil
}

// MarshalJSON writes Pending back as null.
func (r Result) MarshalJSON() ([]byte, error) {
	if r == Pending || r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// Resolution is what resolving a node produces.
type Resolution struct {
	Result   Result            `json:"result"`
	Failures []failure.Failure `json:"failures"`
}
