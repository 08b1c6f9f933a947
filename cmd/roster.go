package main

import (
	"context"

	"github.com/desertthunder/rollcall/internal/roster"
	"github.com/urfave/cli/v3"
)

// RosterShow parses the roster CSV and prints attendees grouped by team.
func (r *Runner) RosterShow(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = r.config.Roster.Path
	}

	r.logger.Infof("loading roster from %v", path)

	attendees, err := r.loadRoster(path)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(attendees, cmd.Bool("pretty"))
	}

	order, counts := roster.Groups(attendees)

	r.writePlain("Roster: %s\n", path)
	r.writePlain("Attendees: %d in %d groups\n", len(attendees), len(order))

	for _, group := range order {
		r.writePlain("\n%s (%d):\n", group, counts[group])
		i := 0
		for _, a := range attendees {
			name := a.Group
			if name == "" {
				name = "Unknown"
			}
			if name != group {
				continue
			}
			i++
			r.writePlain("  %d. %s\n", i, a.Name)
		}
	}

	return nil
}
