// package tasks implements attendance reconciliation operations against a chat service.
//
// The core abstraction is AttendanceEngine, which orchestrates member fetches,
// roster loads, matching runs and member snapshots. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/rollcall/internal/match"
	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/services"
	"github.com/desertthunder/rollcall/internal/shared"
)

// RosterFunc loads the attendee roster from a path. The command layer binds
// this to the configured CSV column layout.
type RosterFunc func(path string) ([]models.Attendee, error)

// MemberCacher persists fetched members for later offline runs.
// Implemented by repositories.MemberCacheAdapter.
type MemberCacher interface {
	CacheMember(guildID, snapshotID string, member models.Member) error
}

// CheckOpts contains parameters for a missing-attendee run.
type CheckOpts struct {
	GuildID    string          // Guild to reconcile against
	RosterPath string          // Roster CSV path
	Threshold  int             // Acceptance threshold, 0-100
	Workers    int             // Parallel matching workers (<2 runs inline)
	Members    []models.Member // Pre-fetched members; skips the API when non-nil
}

// CheckResult contains all data from a missing-attendee run.
type CheckResult struct {
	Guild        *services.Guild      // Guild metadata (nil when run from a snapshot)
	Members      []models.Member      // Member snapshot used for matching
	Attendees    []models.Attendee    // Roster entries
	Results      []models.MatchResult // One entry per attendee, roster order
	Report       models.MissingReport // Missing attendees bucketed by group
	MatchedCount int                  // Attendees found among members
}

// AttendanceRow is one line of the full attendance listing.
type AttendanceRow struct {
	Attendee models.Attendee
	Present  bool
	Matched  string // Display name of the matched member, "" when missing
	Score    int
	Scored   bool
}

// GroupStat summarizes attendance for one group.
type GroupStat struct {
	Group   string
	Total   int
	Present int
	Missing int
}

// AttendanceResult contains the full per-attendee attendance listing.
type AttendanceResult struct {
	Check  *CheckResult
	Rows   []AttendanceRow
	Groups []GroupStat // First-seen group order
}

// SnapshotResult reports the outcome of caching a guild's members.
type SnapshotResult struct {
	Guild      *services.Guild
	SnapshotID string
	Cached     int
}

// AttendanceEngine coordinates the membership service, roster loader and
// matching core for a single run.
type AttendanceEngine struct {
	membership services.MembershipService
	loadRoster RosterFunc
	cache      MemberCacher
}

// NewAttendanceEngine creates an AttendanceEngine with the provided collaborators.
// The cacher may be nil; Snapshot then fails with a clear error.
func NewAttendanceEngine(membership services.MembershipService, loadRoster RosterFunc, cache MemberCacher) *AttendanceEngine {
	return &AttendanceEngine{
		membership: membership,
		loadRoster: loadRoster,
		cache:      cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *AttendanceEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Check runs the full missing-attendee pipeline: fetch members, load the
// roster, match each attendee and build the grouped report.
//
// The threshold is validated before any I/O so an invalid value can never
// produce a partial report.
func (e *AttendanceEngine) Check(ctx context.Context, progress chan<- ProgressUpdate, opts CheckOpts) (*CheckResult, error) {
	matcher, err := match.New(opts.Threshold, match.Options{Workers: opts.Workers})
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}

	if opts.Members != nil {
		result.Members = opts.Members
	} else {
		if e.membership == nil {
			return nil, fmt.Errorf("%w: membership service not initialized", shared.ErrServiceUnavailable)
		}

		e.sendProgress(progress, fetchGuildUpdate(opts.GuildID))
		guild, err := e.membership.GetGuild(ctx, opts.GuildID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch guild: %w", err)
		}
		result.Guild = guild

		e.sendProgress(progress, fetchMembersUpdate(guild.Name, guild.MemberCount))
		members, err := e.membership.GetMembers(ctx, opts.GuildID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch members: %w", err)
		}
		result.Members = members
	}

	e.sendProgress(progress, loadRosterUpdate(opts.RosterPath))
	attendees, err := e.loadRoster(opts.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	result.Attendees = attendees

	e.sendProgress(progress, matchNamesUpdate(len(result.Members), len(attendees)))
	result.Results = matcher.FindMissing(result.Members, attendees)

	for _, r := range result.Results {
		if !r.Missing() {
			result.MatchedCount++
		}
	}

	e.sendProgress(progress, buildReportUpdate())
	result.Report = match.BuildReport(result.Results)

	return result, nil
}

// Report runs Check and expands the results into a per-attendee attendance
// listing with per-group totals.
func (e *AttendanceEngine) Report(ctx context.Context, progress chan<- ProgressUpdate, opts CheckOpts) (*AttendanceResult, error) {
	check, err := e.Check(ctx, progress, opts)
	if err != nil {
		return nil, err
	}

	result := &AttendanceResult{Check: check}

	statIndex := make(map[string]int)
	for _, r := range check.Results {
		row := AttendanceRow{
			Attendee: r.Attendee,
			Present:  !r.Missing(),
			Score:    r.Score,
			Scored:   r.Scored,
		}
		if r.Matched != nil {
			row.Matched = r.Matched.DisplayName
		}
		result.Rows = append(result.Rows, row)

		group := r.Attendee.Group
		if group == "" {
			group = match.UnknownGroup
		}
		idx, seen := statIndex[group]
		if !seen {
			idx = len(result.Groups)
			statIndex[group] = idx
			result.Groups = append(result.Groups, GroupStat{Group: group})
		}
		result.Groups[idx].Total++
		if row.Present {
			result.Groups[idx].Present++
		} else {
			result.Groups[idx].Missing++
		}
	}

	return result, nil
}

// Snapshot fetches the guild's members and persists them through the cacher,
// tagging every row with a fresh snapshot ID.
func (e *AttendanceEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate, guildID string) (*SnapshotResult, error) {
	if e.membership == nil {
		return nil, fmt.Errorf("%w: membership service not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: member cache not configured", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchGuildUpdate(guildID))
	guild, err := e.membership.GetGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild: %w", err)
	}

	e.sendProgress(progress, fetchMembersUpdate(guild.Name, guild.MemberCount))
	members, err := e.membership.GetMembers(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	result := &SnapshotResult{Guild: guild, SnapshotID: shared.GenerateID()}

	for i, member := range members {
		e.sendProgress(progress, cacheMembersUpdate(i+1, len(members)))
		if err := e.cache.CacheMember(guildID, result.SnapshotID, member); err != nil {
			return result, fmt.Errorf("failed to cache member %s: %w", member.ID, err)
		}
		result.Cached++
	}

	return result, nil
}
