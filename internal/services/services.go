// package services defines interface MembershipService for chat platforms that
// can enumerate community members
//
// Discord is the only implementation today
package services

import (
	"context"

	"github.com/desertthunder/rollcall/internal/models"
)

// MembershipService is the membership source collaborator: it supplies the
// member snapshot the matching core runs against. All connection state
// (token, guild, base URL) is passed in at construction, never held globally.
type MembershipService interface {
	// Authenticate verifies the configured credentials with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetGuild retrieves metadata for a guild (server) by ID.
	GetGuild(ctx context.Context, guildID string) (*Guild, error)

	// GetMembers retrieves the full member list for a guild, following
	// pagination until exhausted.
	GetMembers(ctx context.Context, guildID string) ([]models.Member, error)

	// Name returns the name of the service (e.g., "Discord")
	Name() string
}

// Guild represents a chat community (a Discord server).
type Guild struct {
	ID          string
	Name        string
	MemberCount int
}
