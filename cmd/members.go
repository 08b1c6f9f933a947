package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/desertthunder/rollcall/internal/tasks"
	"github.com/urfave/cli/v3"
)

// guildID resolves the guild flag with a config fallback.
func (r *Runner) guildID(cmd *cli.Command) (string, error) {
	guildID := cmd.String("guild")
	if guildID == "" {
		guildID = r.config.Discord.GuildID
	}
	if guildID == "" {
		return "", fmt.Errorf("%w: guild ID must be set via --guild or config.toml", shared.ErrMissingArgument)
	}
	return guildID, nil
}

// MembersFetch fetches all guild members and caches them in the local database.
func (r *Runner) MembersFetch(ctx context.Context, cmd *cli.Command) error {
	guildID, err := r.guildID(cmd)
	if err != nil {
		return err
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	r.logger.Infof("fetching members of guild %v", guildID)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	result, err := r.engine.Snapshot(ctx, progress, guildID)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Cached %d members of %s\n", result.Cached, result.Guild.Name)
	r.writePlain("  Snapshot: %s\n", result.SnapshotID)
	return nil
}

// MembersList lists cached members for a guild.
func (r *Runner) MembersList(ctx context.Context, cmd *cli.Command) error {
	guildID, err := r.guildID(cmd)
	if err != nil {
		return err
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	members, err := r.members.Members(guildID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(members, cmd.Bool("pretty"))
	}

	if len(members) == 0 {
		return r.writePlain("No cached members for guild %s. Run 'rollcall members fetch' first.\n", guildID)
	}

	r.writePlain("Cached members: %d\n\n", len(members))
	for i, m := range members {
		r.writePlain("%d. %s", i+1, m.DisplayName)
		if m.DisplayName != m.Username {
			r.writePlain(" (@%s)", m.Username)
		}
		if m.Bot {
			r.writePlain(" [bot]")
		}
		r.writePlain("\n")
	}

	return nil
}

// MembersClear removes cached members for a guild.
func (r *Runner) MembersClear(ctx context.Context, cmd *cli.Command) error {
	guildID, err := r.guildID(cmd)
	if err != nil {
		return err
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	removed, err := r.members.DeleteByGuild(guildID)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Removed %d cached members for guild %s\n", removed, guildID)
}
