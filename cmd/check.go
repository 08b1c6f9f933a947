package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/rollcall/internal/formatter"
	"github.com/desertthunder/rollcall/internal/match"
	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/desertthunder/rollcall/internal/tasks"
	"github.com/urfave/cli/v3"
)

// checkOpts resolves run parameters from flags, falling back to the config file.
func (r *Runner) checkOpts(cmd *cli.Command) (tasks.CheckOpts, error) {
	opts := tasks.CheckOpts{
		GuildID:    cmd.String("guild"),
		RosterPath: cmd.String("roster"),
		Threshold:  r.config.Matching.Threshold,
		Workers:    r.config.Matching.Workers,
	}

	if opts.GuildID == "" {
		opts.GuildID = r.config.Discord.GuildID
	}
	if opts.RosterPath == "" {
		opts.RosterPath = r.config.Roster.Path
	}
	if cmd.IsSet("threshold") {
		opts.Threshold = int(cmd.Int("threshold"))
	}
	if cmd.IsSet("workers") {
		opts.Workers = int(cmd.Int("workers"))
	}

	if cmd.Bool("cached") {
		if err := r.openDatabase(); err != nil {
			return opts, err
		}
		members, err := r.members.Members(opts.GuildID)
		if err != nil {
			return opts, fmt.Errorf("failed to load cached members: %w", err)
		}
		if len(members) == 0 {
			return opts, fmt.Errorf("%w: no cached members for guild %s, run 'rollcall members fetch' first", shared.ErrInvalidInput, opts.GuildID)
		}
		opts.Members = members
	} else if opts.GuildID == "" {
		return opts, fmt.Errorf("%w: guild ID must be set via --guild or config.toml", shared.ErrMissingArgument)
	}

	return opts, nil
}

// logProgress drains engine progress updates into the logger.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for update := range progress {
		r.logger.Info(update.Message, "phase", update.Phase.String())
	}
	close(done)
}

// CheckRun matches the roster against server members and reports missing attendees.
func (r *Runner) CheckRun(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.checkOpts(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format != "" && !formatter.SupportedFormat(format) {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	r.logger.Infof("checking attendance with threshold %d", opts.Threshold)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	result, err := r.engine.Check(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	summary := formatter.Summary{
		MemberCount:   len(result.Members),
		AttendeeCount: len(result.Attendees),
		Threshold:     opts.Threshold,
		GeneratedAt:   time.Now(),
	}
	if result.Guild != nil {
		summary.GuildName = result.Guild.Name
		summary.GuildID = result.Guild.ID
	}

	if format != "" {
		path, err := formatter.WriteReport(result.Report, summary, format, cmd.String("output"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Report written to %s\n", path)
	}

	if cmd.Bool("json") {
		data, err := formatter.ToJSON(result.Report, cmd.Bool("pretty"))
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	}

	r.writePlainHeader("Missing Attendees")
	if summary.GuildName != "" {
		r.writePlain("Server: %s\n", summary.GuildName)
	}
	r.writePlain("Members: %d  Attendees: %d  Threshold: %d\n\n", summary.MemberCount, summary.AttendeeCount, summary.Threshold)
	r.writePlain("%s\n", match.Render(result.Report))

	return nil
}

// CheckReport prints the full attendance listing with per-group totals.
func (r *Runner) CheckReport(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.checkOpts(cmd)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	result, err := r.engine.Report(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Rows   []tasks.AttendanceRow `json:"rows"`
			Groups []tasks.GroupStat     `json:"groups"`
		}{result.Rows, result.Groups}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Attendance Report")
	for _, stat := range result.Groups {
		r.writePlain("\n%s: %d present, %d missing of %d\n", stat.Group, stat.Present, stat.Missing, stat.Total)
		for _, row := range result.Rows {
			group := row.Attendee.Group
			if group == "" {
				group = match.UnknownGroup
			}
			if group != stat.Group {
				continue
			}
			if row.Present {
				r.writePlain("  ✓ %s (matched %s, score %d)\n", row.Attendee.Name, row.Matched, row.Score)
			} else {
				r.writePlain("  ✗ %s\n", row.Attendee.Name)
			}
		}
	}

	return nil
}
