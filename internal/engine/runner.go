/*
PURPOSE:
  High-level runner that orchestrates one experiment trial.
  Picks a dataset, draws a target, feeds selection events into the trial
  session and persists the result.

REQUIREMENTS:
  User-specified:
  - Random dataset when none is chosen.
  - Tell the participant what to search for.
  - Log the result to the results file when the target is found.

  Implementation-discovered:
  - Selections arrive one label per line (terminal front end); an empty line
    asks for the current elapsed time instead of a ticking timer.
  - Reading stdin blocks, so lines are pumped through a goroutine and the
    loop also watches ctx for Ctrl-C.
  - EOF before the target is found abandons the trial; nothing is stored.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/trial, internal/tree, internal/output, internal/config

ERROR HANDLING:
  - Returns ErrAbandoned when input ends first.
  - A failed save is retried on each further input line; the persistence
    error is returned if input ends before a retry succeeds.

IMPLEMENTATION RULES:
  - One trial at a time; all selection events go through trial.Session.

USAGE:
  r := engine.NewRunner(cfg, catalog, store, os.Stdin, os.Stdout)
  rec, err := r.Run(ctx, "Ada", "")

RELATED FILES:
  - internal/engine/catalog.go
  - internal/trial/session.go
*/

package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/daryltucker/tree-trial/internal/config"
	"github.com/daryltucker/tree-trial/internal/model"
	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/daryltucker/tree-trial/internal/trial"
	"github.com/daryltucker/tree-trial/internal/tree"
)

// ErrAbandoned is returned when input ends before the target is found.
var ErrAbandoned = errors.New("trial abandoned before the target was found")

// Runner drives a single trial from a line-oriented selection stream.
type Runner struct {
	Catalog  *Catalog
	Recorder trial.Recorder
	Machine  trial.Machine
	In       io.Reader
	Out      io.Writer
	// ShowTree prints the dataset outline before the search starts.
	ShowTree bool

	rng tree.IntN
}

// NewRunner wires a Runner from configuration.
func NewRunner(cfg *config.Config, catalog *Catalog, recorder trial.Recorder, in io.Reader, out io.Writer) *Runner {
	r := &Runner{
		Catalog:  catalog,
		Recorder: recorder,
		In:       in,
		Out:      out,
		ShowTree: true,
	}
	if cfg.Seed != 0 {
		r.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
		r.Machine.Rand = r.rng
	}
	return r
}

// Run executes one trial for participant on datasetID (random when empty).
func (r *Runner) Run(ctx context.Context, participant, datasetID string) (model.ResultRecord, error) {
	idle, err := trial.New(participant)
	if err != nil {
		return model.ResultRecord{}, err
	}

	if datasetID == "" {
		datasetID, err = r.Catalog.Random(r.rng)
		if err != nil {
			return model.ResultRecord{}, err
		}
	}

	output.Logger.Info("Loading dataset", "dataset", datasetID)
	root, err := r.Catalog.Tree(datasetID)
	if err != nil {
		return model.ResultRecord{}, fmt.Errorf("failed to load dataset %s: %w", datasetID, err)
	}

	if r.ShowTree {
		if err := output.RenderTree(r.Out, root); err != nil {
			return model.ResultRecord{}, err
		}
		fmt.Fprintln(r.Out)
	}

	running, err := r.Machine.Begin(idle, datasetID, root)
	if err != nil {
		return model.ResultRecord{}, err
	}
	output.Logger.Info("Trial started",
		"trial", running.ID(),
		"participant", running.Participant(),
		"dataset", datasetID,
		"labels", running.LabelCount(),
	)
	fmt.Fprintf(r.Out, "Find the following entry: %s\n", running.Target())

	session := trial.NewSession(r.Machine, running, r.Recorder)

	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines := pump(readCtx, r.In)

	for {
		select {
		case <-ctx.Done():
			output.Logger.Warn("Trial interrupted", "trial", running.ID())
			return model.ResultRecord{}, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				output.Logger.Warn("Trial abandoned", "trial", running.ID())
				return model.ResultRecord{}, ErrAbandoned
			}

			label := strings.TrimRight(line, "\r")
			if strings.TrimSpace(label) == "" {
				d, err := session.Elapsed()
				if err != nil {
					return model.ResultRecord{}, err
				}
				fmt.Fprintf(r.Out, "Find: %s (time: %.0f seconds)\n", running.Target(), d.Seconds())
				continue
			}

			found, err := session.Select(ctx, label)
			if err != nil {
				output.Logger.Error("Failed to save result", "trial", running.ID(), "error", err)
				if err := r.retrySave(ctx, session, lines, err); err != nil {
					return model.ResultRecord{}, err
				}
			}
			if !found {
				d, _ := session.Elapsed()
				fmt.Fprintf(r.Out, "Not it. Find: %s (time: %.0f seconds)\n", running.Target(), d.Seconds())
				continue
			}

			rec, _ := session.Trial().Record()
			fmt.Fprintf(r.Out, "Found! Time: %.2f seconds\n", rec.Time)
			output.Logger.Info("Trial finished",
				"trial", running.ID(),
				"participant", rec.Participant,
				"dataset", rec.Dataset,
				"time_s", fmt.Sprintf("%.2f", rec.Time),
			)
			return rec, nil
		}
	}
}

// retrySave keeps a Found trial whose record could not be appended and
// retries the append on every further input line until it succeeds, input
// ends or ctx is done. The last append error is returned on failure.
func (r *Runner) retrySave(ctx context.Context, session *trial.Session, lines <-chan string, err error) error {
	for {
		fmt.Fprintf(r.Out, "Could not save the result: %v\nPress Enter to retry.\n", err)
		select {
		case <-ctx.Done():
			return err
		case _, ok := <-lines:
			if !ok {
				return err
			}
			if err = session.Flush(ctx); err == nil {
				output.Logger.Info("Result saved after retry", "trial", session.Trial().ID())
				return nil
			}
			output.Logger.Error("Failed to save result", "trial", session.Trial().ID(), "error", err)
		}
	}
}

// pump forwards lines from in until EOF or ctx is done.
func pump(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
