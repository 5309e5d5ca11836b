package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	RunID string `arg:"" optional:"" name:"run-id" help:"Show the events of this run"`
	Limit int    `short:"n" help:"Number of runs to list" default:"20"`
}

func (h *HistoryCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return errors.ConfigError("journal is disabled").
			WithContext("hint", "set journal.path in the configuration file").
			Build()
	}

	store, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if h.RunID != "" {
		events, err := store.GetByRunID(ctx, h.RunID)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return errors.NewError(errors.CategoryNotFound, "run not found").
				WithContext("run_id", h.RunID).
				Build()
		}
		return writeEvents(g.stdout(), events)
	}

	runs, err := store.ListRuns(ctx, h.Limit)
	if err != nil {
		return err
	}
	return writeRuns(g.stdout(), runs)
}

func writeRuns(w io.Writer, runs []journal.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tCOMMAND\tSTARTED\tDURATION\tEVENTS\tERRORS")
	for _, r := range runs {
		duration := "unfinished"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.RunID, r.Command, r.StartedAt.Format(time.DateTime), duration, r.Events, r.Errors)
	}
	return tw.Flush()
}

func writeEvents(w io.Writer, events []journal.Event) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tEVENT\tPATH\tTARGET\tCATEGORY\tDETAIL")
	for _, e := range events {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format(time.TimeOnly), e.Type, dash(e.Path), dash(e.Target), dash(e.Category), detail(e))
	}
	return tw.Flush()
}

// detail joins the message and metadata of an event into one column.
func detail(e journal.Event) string {
	parts := make([]string, 0, len(e.Metadata)+1)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+e.Metadata[k])
	}
	return dash(strings.Join(parts, " "))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
