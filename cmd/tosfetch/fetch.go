package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/tosfetch"
	"golang.org/x/sync/errgroup"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Retriever tosfetch.Retriever
}

// FetchCmd retrieves every URL and writes the results in input order.
type FetchCmd struct {
	URLs        []string
	Concurrency int
	Deadline    time.Duration
	JSON        bool
}

// FailedError reports that some URLs could not be retrieved. The individual
// messages have already been written to stderr.
type FailedError struct {
	Failed int
	Total  int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%d of %d URLs failed", e.Failed, e.Total)
}

type outcome struct {
	doc *tosfetch.Document
	err error
}

// record is the JSON form of one outcome.
type record struct {
	URL      string             `json:"url"`
	Document *tosfetch.Document `json:"document,omitempty"`
	Error    *errorRecord       `json:"error,omitempty"`
}

type errorRecord struct {
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Attempts []tosfetch.Attempt `json:"attempts,omitempty"`
}

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	outcomes := make([]outcome, len(c.URLs))

	var g errgroup.Group
	g.SetLimit(c.Concurrency)
	for i, url := range c.URLs {
		g.Go(func() error {
			ctx := deps.Ctx
			if c.Deadline > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, c.Deadline)
				defer cancel()
			}
			doc, err := deps.Retriever.Retrieve(ctx, url)
			outcomes[i] = outcome{doc: doc, err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	var docs []*tosfetch.Document
	for i, o := range outcomes {
		if o.err != nil {
			failed++
			c.reportError(deps.Stderr, c.URLs[i], o.err)
		} else {
			docs = append(docs, o.doc)
		}
		if c.JSON {
			if err := writeRecord(deps.Stdout, c.URLs[i], o); err != nil {
				return err
			}
		}
	}

	if !c.JSON {
		if err := c.writeText(deps.Stdout, docs); err != nil {
			return err
		}
	}

	if failed > 0 {
		return &FailedError{Failed: failed, Total: len(c.URLs)}
	}
	return nil
}

// reportError writes the user-facing message, prefixed with the URL when
// several URLs were requested.
func (c *FetchCmd) reportError(w io.Writer, url string, err error) {
	msg := tosfetch.ErrorMessage(err)
	if len(c.URLs) > 1 {
		fmt.Fprintf(w, "%s: %s\n", url, msg)
		return
	}
	fmt.Fprintln(w, msg)
}

func writeRecord(w io.Writer, url string, o outcome) error {
	rec := record{URL: url, Document: o.doc}
	if o.err != nil {
		rec.Error = &errorRecord{
			Code:     tosfetch.ErrorCode(o.err),
			Message:  tosfetch.ErrorMessage(o.err),
			Attempts: tosfetch.ErrorAttempts(o.err),
		}
	}
	return json.NewEncoder(w).Encode(rec)
}

// writeText prints a lone document's text as is, and several documents
// under headers.
func (c *FetchCmd) writeText(w io.Writer, docs []*tosfetch.Document) error {
	if len(docs) == 0 {
		return nil
	}
	text := docs[0].Text
	if len(c.URLs) > 1 {
		text = tosfetch.FormatDocuments(docs)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
