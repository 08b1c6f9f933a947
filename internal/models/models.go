// package models defines the data model for the attendance reconciliation service
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models in the attendance service.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Member is an immutable snapshot of one guild member, captured per matching run.
type Member struct {
	ID          string // Discord snowflake ID
	Username    string // Account username
	DisplayName string // Nickname > global name > username
	Bot         bool   // True for bot accounts
}

// Attendee is one roster entry loaded from the registration CSV.
type Attendee struct {
	Name  string // Registered name, never empty
	Group string // Team/cohort label, may be empty
	Row   int    // 1-based CSV row for traceability
}

// MatchResult records the outcome of matching a single attendee against the member list.
//
// Matched is nil when no member scored at or above the threshold. Scored is false
// only when there were no members to compare against at all.
type MatchResult struct {
	Attendee Attendee
	Matched  *Member
	Score    int
	Scored   bool
}

// Missing reports whether the attendee was not found among the members.
func (r MatchResult) Missing() bool {
	return r.Matched == nil
}

// MissingReport buckets missing attendees by group.
//
// Order preserves group-first-seen order; every missing attendee appears in
// exactly one bucket, in roster order within its group.
type MissingReport struct {
	Order  []string
	Groups map[string][]Attendee
	Total  int
}

// Empty reports whether no attendees are missing.
func (r MissingReport) Empty() bool {
	return r.Total == 0
}

// PersistedMember is a database-backed guild member used by the snapshot cache.
type PersistedMember struct {
	RowID      int64
	Sequence   int
	DiscordID  string
	GuildID    string
	Username   string
	Display    string
	Bot        bool
	SnapshotID string
	Created    time.Time
	Updated    time.Time
}

// NewPersistedMember builds a PersistedMember from a snapshot Member.
func NewPersistedMember(sequence int, guildID, snapshotID string, m Member) *PersistedMember {
	now := time.Now().UTC()
	return &PersistedMember{
		Sequence:   sequence,
		DiscordID:  m.ID,
		GuildID:    guildID,
		Username:   m.Username,
		Display:    m.DisplayName,
		Bot:        m.Bot,
		SnapshotID: snapshotID,
		Created:    now,
		Updated:    now,
	}
}

// Member converts the persisted row back into a snapshot Member.
func (p *PersistedMember) Member() Member {
	return Member{
		ID:          p.DiscordID,
		Username:    p.Username,
		DisplayName: p.Display,
		Bot:         p.Bot,
	}
}

func (p *PersistedMember) ID() string           { return p.DiscordID }
func (p *PersistedMember) CreatedAt() time.Time { return p.Created }
func (p *PersistedMember) UpdatedAt() time.Time { return p.Updated }

// Validate checks required fields on the persisted member.
func (p *PersistedMember) Validate() error {
	if strings.TrimSpace(p.DiscordID) == "" {
		return fmt.Errorf("persisted member missing discord ID")
	}
	if strings.TrimSpace(p.GuildID) == "" {
		return fmt.Errorf("persisted member missing guild ID")
	}
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("persisted member missing username")
	}
	return nil
}
