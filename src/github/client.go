// Package github reads pull request discussion threads.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"

	"cisleuth/src/jobs"
)

const perPage = 100

// restClient is the part of the go-gh REST client used here.
type restClient interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response interface{}) error
}

type Client struct {
	rest restClient
}

// NewClient uses the gh CLI's stored credentials or GH_TOKEN/GITHUB_TOKEN.
func NewClient() (*Client, error) {
	rest, err := ghAPI.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client (is gh authenticated?): %w", err)
	}
	return &Client{rest: rest}, nil
}

type pullRequest struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type comment struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type review struct {
	Body        string    `json:"body"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Thread returns the body, comments and reviews of a pull request, oldest
// first.
func (c *Client) Thread(ctx context.Context, owner, repo string, number int) ([]jobs.Entry, error) {
	base := fmt.Sprintf("repos/%s/%s", owner, repo)

	var pr pullRequest
	if err := c.rest.DoWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/pulls/%d", base, number), nil, &pr); err != nil {
		return nil, fmt.Errorf("fetch pull request %s#%d: %w", base, number, err)
	}
	entries := []jobs.Entry{{Body: pr.Body, PublishedAt: pr.CreatedAt}}

	comments, err := getAll[comment](ctx, c.rest, fmt.Sprintf("%s/issues/%d/comments", base, number))
	if err != nil {
		return nil, fmt.Errorf("fetch comments of %s#%d: %w", base, number, err)
	}
	for _, cm := range comments {
		entries = append(entries, jobs.Entry{Body: cm.Body, PublishedAt: cm.CreatedAt})
	}

	reviews, err := getAll[review](ctx, c.rest, fmt.Sprintf("%s/pulls/%d/reviews", base, number))
	if err != nil {
		return nil, fmt.Errorf("fetch reviews of %s#%d: %w", base, number, err)
	}
	for _, rv := range reviews {
		if rv.Body == "" {
			continue
		}
		entries = append(entries, jobs.Entry{Body: rv.Body, PublishedAt: rv.SubmittedAt})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PublishedAt.Before(entries[j].PublishedAt)
	})
	return entries, nil
}

func getAll[T any](ctx context.Context, rest restClient, path string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		var batch []T
		p := fmt.Sprintf("%s?per_page=%d&page=%d", path, perPage, page)
		if err := rest.DoWithContext(ctx, http.MethodGet, p, nil, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}
