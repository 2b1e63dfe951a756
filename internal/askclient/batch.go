package askclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/frcscout/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// progressEvery controls how often batch progress is logged.
const progressEvery = 10

// Answer is one batch question with its outcome.
type Answer struct {
	Question string
	Reply    string
	Err      error
}

// Stats summarizes a batch run.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// ReadQuestions reads one question per line, skipping blank lines and
// lines starting with '#'.
func ReadQuestions(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return out, nil
}

// Batch asks every question with at most workers requests in flight.
// Answers keep input order. Per-question failures are recorded in the
// answer; only context cancellation stops the run early.
func (c *Client) Batch(ctx context.Context, questions []string, workers int) ([]Answer, Stats, error) {
	if len(questions) == 0 {
		return nil, Stats{}, ErrNoQuestions
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	start := time.Now()
	answers := make([]Answer, len(questions))
	var done, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, q := range questions {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			reply, err := c.Ask(gctx, q)
			answers[i] = Answer{Question: q, Reply: reply, Err: err}
			if err != nil {
				failed.Add(1)
				c.log.Warn(gctx, "question failed", logger.String("question", q), logger.Error(err))
			}
			if n := done.Add(1); n%progressEvery == 0 {
				c.log.Info(gctx, "batch progress",
					logger.Int("done", int(n)),
					logger.Int("total", len(questions)))
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{
		Total:     int(done.Load()),
		Succeeded: int(done.Load() - failed.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(start),
	}
	if err := ctx.Err(); err != nil {
		return answers, stats, fmt.Errorf("batch interrupted: %w", err)
	}
	return answers, stats, nil
}

// WriteAnswers prints answers in order, one block per question.
func WriteAnswers(w io.Writer, answers []Answer) error {
	for _, a := range answers {
		if a.Question == "" {
			continue
		}
		reply := a.Reply
		if a.Err != nil {
			reply = "error: " + a.Err.Error()
		}
		if _, err := fmt.Fprintf(w, "> %s\n%s\n\n", a.Question, reply); err != nil {
			return err
		}
	}
	return nil
}
