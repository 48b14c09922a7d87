package jobs

import (
	"regexp"
	"strings"
	"time"
)

const ciHost = "ci.nodejs.org"

var linkPattern = regexp.MustCompile(`//ci\.nodejs\.org(\S+)`)

// Entry is one piece of text in a thread: a body, comment or review.
type Entry struct {
	Body        string
	PublishedAt time.Time
}

// Mine returns the most recently published reference of each job type. Among
// references of one type, the one from the later entry wins; ties keep the
// first seen.
func Mine(thread []Entry) map[Type]Reference {
	found := make(map[Type]Reference)

	for _, entry := range thread {
		if !strings.Contains(entry.Body, ciHost) {
			continue
		}

		seen := make(map[string]bool)
		for _, m := range linkPattern.FindAllString(entry.Body, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true

			ref, ok := ParseURL(m)
			if !ok {
				continue
			}
			ref.Link = "https:" + m
			ref.Date = entry.PublishedAt

			if prev, exists := found[ref.Type]; exists && !entry.PublishedAt.After(prev.Date) {
				continue
			}
			found[ref.Type] = ref
		}
	}

	return found
}

// Sorted lists references in job type order.
func Sorted(refs map[Type]Reference) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, jt := range Types {
		if ref, ok := refs[jt.Type]; ok {
			out = append(out, ref)
		}
	}
	return out
}
