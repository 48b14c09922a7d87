package mcp

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"cisleuth/src/failure"
	"cisleuth/src/patterns"
	"cisleuth/src/ranking"
	"cisleuth/src/report"
)

// DefaultLimit caps expanded groups in a manifest.
const DefaultLimit = 15

const (
	maxSummaryTitle = 100
	maxExcerptLines = 20
)

// GroupID is a stable identifier for a failure group.
func GroupID(g ranking.Group) string {
	sum := sha1.Sum([]byte(g.Signature))
	return hex.EncodeToString(sum[:])[:12]
}

// ToManifest expands up to limit widespread groups and summarizes the rest.
// Groups beyond limit are dropped from the expanded list and counted in
// Truncated; they remain reachable by ID.
func ToManifest(rep *report.Report, limit int) Manifest {
	if limit <= 0 {
		limit = DefaultLimit
	}

	m := Manifest{
		ReportID:   rep.ID.String(),
		Type:       rep.Type,
		URL:        rep.URL,
		Result:     rep.Result,
		Change:     rep.Change,
		SourceURL:  rep.SourceURL,
		SubBuilds:  rep.SubBuilds,
		Benchmark:  rep.Benchmark,
		Widespread: []GroupDetail{},
		Other:      []GroupSummary{},
	}

	for _, g := range rep.Groups {
		if g.Tier == ranking.TierWidespread && len(m.Widespread) < limit {
			m.Widespread = append(m.Widespread, Detail(g))
			continue
		}
		if len(m.Widespread)+len(m.Other) >= limit*2 {
			m.Truncated++
			continue
		}
		m.Other = append(m.Other, summary(g))
	}
	return m
}

// Detail expands a group with its compressed excerpt.
func Detail(g ranking.Group) GroupDetail {
	d := GroupDetail{
		ID:       GroupID(g),
		Rank:     g.Rank,
		Tier:     g.Tier,
		Kind:     kindName(g.Example),
		Title:    title(g.Example),
		Count:    g.Count,
		Machines: g.Machines,
		URLs:     g.URLs,
	}
	if !g.Example.Sentinel {
		d.Excerpt = compressExcerpt(g.Example.Reason)
	}
	return d
}

func summary(g ranking.Group) GroupSummary {
	t := title(g.Example)
	if len(t) > maxSummaryTitle {
		t = t[:maxSummaryTitle-3] + "..."
	}
	return GroupSummary{
		ID:    GroupID(g),
		Rank:  g.Rank,
		Tier:  g.Tier,
		Title: t,
		Count: g.Count,
	}
}

func title(f failure.Failure) string {
	switch {
	case f.Sentinel:
		return f.Reason
	case f.Kind == failure.JSTestFailure:
		return f.File
	default:
		return patterns.Normalize(f.HighlightedLine(), patterns.MaskDisplay)
	}
}

func kindName(f failure.Failure) string {
	if f.Sentinel {
		return "SENTINEL"
	}
	return string(f.Kind)
}

// compressExcerpt strips per-line noise and keeps at most maxExcerptLines.
func compressExcerpt(reason string) []string {
	lines := strings.Split(strings.TrimRight(reason, "\n"), "\n")
	if len(lines) > maxExcerptLines {
		lines = lines[:maxExcerptLines]
	}
	lines = patterns.NormalizeLines(lines, patterns.MaskDisplay)

	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
