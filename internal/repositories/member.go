package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/rollcall/internal/models"
)

// MemberRepository persists guild member snapshots to sqlite.
//
// Rows are keyed by (guild_id, discord_id): refetching a guild refreshes
// existing rows rather than accumulating duplicates.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new MemberRepository with the given database connection
func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a new [models.PersistedMember] with a generated sequence number
func (r *MemberRepository) Create(member *models.PersistedMember) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "members")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	member.Sequence = sequence

	query := `
		INSERT INTO members (sequence, discord_id, guild_id, username, display_name, bot, snapshot_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		member.Sequence,
		member.DiscordID,
		member.GuildID,
		member.Username,
		member.Display,
		member.Bot,
		member.SnapshotID,
		member.Created,
		member.Updated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	member.RowID, _ = result.LastInsertId()
	return nil
}

// GetByDiscordID retrieves one cached member within a guild
func (r *MemberRepository) GetByDiscordID(guildID, discordID string) (*models.PersistedMember, error) {
	query := `
		SELECT id, sequence, discord_id, guild_id, username, display_name, bot, snapshot_id, created_at, updated_at
		FROM members
		WHERE guild_id = ? AND discord_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, guildID, discordID))
}

// Update refreshes a cached member's name fields and snapshot tag
func (r *MemberRepository) Update(member *models.PersistedMember) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	member.Updated = now

	query := `
		UPDATE members
		SET username = ?, display_name = ?, bot = ?, snapshot_id = ?, updated_at = ?
		WHERE guild_id = ? AND discord_id = ?
	`

	result, err := r.db.Exec(query,
		member.Username,
		member.Display,
		member.Bot,
		member.SnapshotID,
		now,
		member.GuildID,
		member.DiscordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("member not found: %s", member.DiscordID)
	}

	return nil
}

// ListByGuild retrieves all cached members for a guild in sequence order
func (r *MemberRepository) ListByGuild(guildID string) ([]*models.PersistedMember, error) {
	query := `
		SELECT id, sequence, discord_id, guild_id, username, display_name, bot, snapshot_id, created_at, updated_at
		FROM members
		WHERE guild_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []*models.PersistedMember
	for rows.Next() {
		member, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return members, nil
}

// Members returns the cached guild roster as snapshot Members, ready for matching
func (r *MemberRepository) Members(guildID string) ([]models.Member, error) {
	cached, err := r.ListByGuild(guildID)
	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(cached))
	for _, row := range cached {
		members = append(members, row.Member())
	}
	return members, nil
}

// DeleteByGuild removes every cached member for a guild and returns the count removed
func (r *MemberRepository) DeleteByGuild(guildID string) (int, error) {
	result, err := r.db.Exec("DELETE FROM members WHERE guild_id = ?", guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete members: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedMember]
func (r *MemberRepository) scanOne(row *sql.Row) (*models.PersistedMember, error) {
	var member models.PersistedMember

	err := row.Scan(
		&member.RowID,
		&member.Sequence,
		&member.DiscordID,
		&member.GuildID,
		&member.Username,
		&member.Display,
		&member.Bot,
		&member.SnapshotID,
		&member.Created,
		&member.Updated,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	return &member, nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedMember]
func (r *MemberRepository) scanRow(rows *sql.Rows) (*models.PersistedMember, error) {
	var member models.PersistedMember

	err := rows.Scan(
		&member.RowID,
		&member.Sequence,
		&member.DiscordID,
		&member.GuildID,
		&member.Username,
		&member.Display,
		&member.Bot,
		&member.SnapshotID,
		&member.Created,
		&member.Updated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	return &member, nil
}
