// Package mcp exposes build resolution and thread mining as MCP tools so an
// LLM client can triage Node.js CI results.
package mcp

import (
	"cisleuth/src/ci"
	"cisleuth/src/jobs"
	"cisleuth/src/report"
)

// Manifest is the resolve_build response. Widespread groups are expanded with
// their excerpt; the rest are summarized and can be fetched with
// get_failure_details.
type Manifest struct {
	ReportID   string            `json:"report_id"`
	Type       string            `json:"type"`
	URL        string            `json:"url"`
	Result     ci.Result         `json:"result"`
	Change     *ci.Change        `json:"change,omitempty"`
	SourceURL  string            `json:"source,omitempty"`
	SubBuilds  *report.SubBuilds `json:"sub_builds,omitempty"`
	Benchmark  []string          `json:"significant_results,omitempty"`
	Widespread []GroupDetail     `json:"widespread_failures"`
	Other      []GroupSummary    `json:"other_failures"`
	Truncated  int               `json:"truncated,omitempty"`
}

// GroupDetail is a failure group with its compressed excerpt.
type GroupDetail struct {
	ID       string   `json:"id"`
	Rank     int      `json:"rank"`
	Tier     int      `json:"tier"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	Count    int      `json:"count"`
	Machines []string `json:"machines,omitempty"`
	URLs     []string `json:"urls"`
	Excerpt  []string `json:"excerpt,omitempty"`
}

// GroupSummary is a one-line view of a failure group.
type GroupSummary struct {
	ID    string `json:"id"`
	Rank  int    `json:"rank"`
	Tier  int    `json:"tier"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// ThreadResponse is the mine_thread response.
type ThreadResponse struct {
	Owner  string           `json:"owner"`
	Repo   string           `json:"repo"`
	Number int              `json:"number"`
	Jobs   []jobs.Reference `json:"jobs"`
}
