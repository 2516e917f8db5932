// Package probe runs pre-flight checks before the service accepts traffic.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// checkTimeout bounds each individual check.
const checkTimeout = 5 * time.Second

// Probe is one pre-flight check. A critical failure keeps the service from
// starting; the rest only warn.
type Probe struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// Result is the outcome of one probe.
type Result struct {
	Name     string
	Critical bool
	Err      error
	Elapsed  time.Duration
}

// Run executes the probes in order, each under its own timeout.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, 0, len(probes))
	for _, p := range probes {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		start := time.Now()
		err := p.Check(checkCtx)
		cancel()

		results = append(results, Result{
			Name:     p.Name,
			Critical: p.Critical,
			Err:      err,
			Elapsed:  time.Since(start),
		})
	}
	return results
}

// AnalyzeResults logs every outcome and returns a combined error when any
// critical check failed.
func AnalyzeResults(results []Result) error {
	var critical []error
	for _, r := range results {
		took := r.Elapsed.Round(time.Millisecond)
		switch {
		case r.Err == nil:
			slog.Info("Pre-flight check passed", "check", r.Name, "took", took)
		case r.Critical:
			slog.Error("Pre-flight check failed", "check", r.Name, "took", took, "error", r.Err)
			critical = append(critical, fmt.Errorf("%s: %w", r.Name, r.Err))
		default:
			slog.Warn("Pre-flight check failed", "check", r.Name, "took", took, "error", r.Err)
		}
	}
	return errors.Join(critical...)
}
