package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/rollcall/internal/models"
)

// MemberCacheAdapter implements tasks.MemberCacher using MemberRepository.
//
// Refetching a guild refreshes existing rows via the (guild_id, discord_id)
// constraint, so the cache always reflects the most recent snapshot.
type MemberCacheAdapter struct {
	repo *MemberRepository
}

// NewMemberCacheAdapter creates a new MemberCacheAdapter with the given repository
func NewMemberCacheAdapter(repo *MemberRepository) *MemberCacheAdapter {
	return &MemberCacheAdapter{repo: repo}
}

// CacheMember persists one fetched member under the given snapshot ID.
// An already-cached member is updated in place rather than duplicated.
func (a *MemberCacheAdapter) CacheMember(guildID, snapshotID string, member models.Member) error {
	existing, err := a.repo.GetByDiscordID(guildID, member.ID)
	if err == nil && existing != nil {
		existing.Username = member.Username
		existing.Display = member.DisplayName
		existing.Bot = member.Bot
		existing.SnapshotID = snapshotID
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached member: %w", err)
		}
		return nil
	}

	persisted := models.NewPersistedMember(0, guildID, snapshotID, member)

	if err := a.repo.Create(persisted); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache member: %w", err)
	}

	return nil
}
