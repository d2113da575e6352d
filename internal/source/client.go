// Package source fetches raw corpus records from a curated GitHub
// repository of JSON example files. It is one concrete corpus source;
// the pipeline only sees the raw records it yields.
package source

import (
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v81/github"
)

// requestTimeout bounds every round trip to the GitHub API. An
// unbounded external call is a defect.
const requestTimeout = 15 * time.Second

// Client wraps the GitHub API client with rate limiting support.
type Client struct {
	*github.Client
}

// NewClient creates a GitHub client with automatic rate-limit
// handling. A non-empty token authenticates the client for higher
// limits; an empty token falls back to anonymous access.
func NewClient(token string) (*Client, error) {
	rateLimiter, err := github_ratelimit.NewRateLimitWaiterClient(nil)
	if err != nil {
		return nil, err
	}
	rateLimiter.Timeout = requestTimeout

	ghClient := github.NewClient(rateLimiter)
	if token != "" {
		ghClient = ghClient.WithAuthToken(token)
	}

	return &Client{Client: ghClient}, nil
}
