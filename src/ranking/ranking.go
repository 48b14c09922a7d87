// Package ranking groups failures from one or more builds and orders them so
// the most likely real breakages come first.
package ranking

import (
	"sort"

	"cisleuth/src/failure"
	"cisleuth/src/patterns"
)

// Tier constants for group classification.
const (
	TierWidespread = 1 // Seen on more than one machine or run
	TierIsolated   = 2 // Seen once, often a flake or a sick machine
	TierSentinel   = 3 // Stand-ins for missing or unclassifiable data
)

// Group is every failure sharing one signature.
type Group struct {
	Signature string            `json:"signature"`
	Kind      failure.Kind      `json:"type,omitempty"`
	Tier      int               `json:"tier"`
	Rank      int               `json:"rank"`
	Count     int               `json:"count"`
	Machines  []string          `json:"machines,omitempty"`
	URLs      []string          `json:"urls"`
	Example   failure.Failure   `json:"example"`
	Failures  []failure.Failure `json:"-"`
}

// RankFailures groups failures by signature and ranks the groups: tier first, then count
// (descending), then first appearance.
func RankFailures(failures []failure.Failure) []Group {
	if len(failures) == 0 {
		return nil
	}

	index := make(map[string]int)
	var groups []Group

	for _, f := range failures {
		sig := patterns.Signature(f)
		i, ok := index[sig]
		if !ok {
			i = len(groups)
			index[sig] = i
			groups = append(groups, Group{Signature: sig, Kind: f.Kind, Example: f})
		}
		g := &groups[i]
		g.Count++
		g.Failures = append(g.Failures, f)
		g.URLs = appendUnique(g.URLs, f.URL)
		if f.BuiltOn != "" {
			g.Machines = appendUnique(g.Machines, f.BuiltOn)
		}
	}

	for i := range groups {
		groups[i].Tier = ClassifyTier(groups[i])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Tier != groups[j].Tier {
			return groups[i].Tier < groups[j].Tier
		}
		return groups[i].Count > groups[j].Count
	})

	for i := range groups {
		groups[i].Rank = i + 1
	}
	return groups
}

// ClassifyTier determines which tier a group belongs to.
func ClassifyTier(g Group) int {
	if g.Example.Sentinel {
		return TierSentinel
	}
	if len(g.URLs) > 1 || len(g.Machines) > 1 {
		return TierWidespread
	}
	return TierIsolated
}

// Counts returns the number of groups per tier.
func Counts(groups []Group) (widespread, isolated, sentinel int) {
	for _, g := range groups {
		switch g.Tier {
		case TierWidespread:
			widespread++
		case TierIsolated:
			isolated++
		case TierSentinel:
			sentinel++
		}
	}
	return widespread, isolated, sentinel
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
