package main_test

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/tosfetch"
	main "github.com/fwojciec/tosfetch/cmd/tosfetch"
	"github.com/fwojciec/tosfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order under concurrency", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			RetrieveFn: func(_ context.Context, url string) (*tosfetch.Document, error) {
				if url == "https://a.example/terms" {
					time.Sleep(30 * time.Millisecond)
				}
				return &tosfetch.Document{URL: url, Text: "text of " + url}, nil
			},
		}
		var stdout, stderr bytes.Buffer
		cmd := &main.FetchCmd{
			URLs:        []string{"https://a.example/terms", "https://b.example/terms"},
			Concurrency: 2,
		}

		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &stdout, Stderr: &stderr, Retriever: retriever})

		require.NoError(t, err)
		assert.Equal(t,
			"## https://a.example/terms\ntext of https://a.example/terms\n\n"+
				"## https://b.example/terms\ntext of https://b.example/terms\n",
			stdout.String())
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		retriever := &mock.Retriever{
			RetrieveFn: func(_ context.Context, url string) (*tosfetch.Document, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return &tosfetch.Document{URL: url, Text: "ok"}, nil
			},
		}
		var stdout, stderr bytes.Buffer
		cmd := &main.FetchCmd{
			URLs:        []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example"},
			Concurrency: 2,
		}

		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &stdout, Stderr: &stderr, Retriever: retriever})

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("applies the per-URL deadline", func(t *testing.T) {
		t.Parallel()

		var hadDeadline bool
		retriever := &mock.Retriever{
			RetrieveFn: func(ctx context.Context, url string) (*tosfetch.Document, error) {
				_, hadDeadline = ctx.Deadline()
				return &tosfetch.Document{URL: url, Text: "ok"}, nil
			},
		}
		var stdout, stderr bytes.Buffer
		cmd := &main.FetchCmd{URLs: []string{"https://a.example"}, Concurrency: 1, Deadline: time.Minute}

		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &stdout, Stderr: &stderr, Retriever: retriever})

		require.NoError(t, err)
		assert.True(t, hadDeadline)
	})

	t.Run("single failure prints the message alone", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			RetrieveFn: func(context.Context, string) (*tosfetch.Document, error) {
				return nil, tosfetch.Errorf(tosfetch.EINVALIDURL, "Invalid URL format: nope")
			},
		}
		var stdout, stderr bytes.Buffer
		cmd := &main.FetchCmd{URLs: []string{"nope"}, Concurrency: 1}

		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &stdout, Stderr: &stderr, Retriever: retriever})

		var failed *main.FailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "Invalid URL format: nope\n", stderr.String())
		assert.Empty(t, stdout.String())
	})
}
