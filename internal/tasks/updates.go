package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchGuild Phase = iota
	FetchMembers
	LoadRoster
	MatchNames
	BuildReport
	CacheMembers
)

func (p Phase) String() string {
	switch p {
	case FetchGuild:
		return "fetch_guild"
	case FetchMembers:
		return "fetch_members"
	case LoadRoster:
		return "load_roster"
	case MatchNames:
		return "match_names"
	case BuildReport:
		return "build_report"
	case CacheMembers:
		return "cache_members"
	default:
		return "unknown"
	}
}

func fetchGuildUpdate(guildID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGuild,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Connecting to guild %s", guildID),
	}
}

func fetchMembersUpdate(guildName string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMembers,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching members of %s (~%d)", guildName, count),
	}
}

func loadRosterUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadRoster,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading roster from %s", path),
	}
}

func matchNamesUpdate(members, attendees int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchNames,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d members against %d attendees", members, attendees),
	}
}

func buildReportUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildReport,
		Step:    1,
		Total:   1,
		Message: "Building missing-attendee report",
	}
}

func cacheMembersUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheMembers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching member %d/%d", step, total),
	}
}
