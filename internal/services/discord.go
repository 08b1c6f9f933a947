// Discord API implementation of [MembershipService]
//
// Discord API response types based on https://discord.com/developers/docs/resources/guild
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
	"golang.org/x/time/rate"
)

const (
	discordBaseURL = "https://discord.com/api/v10"

	// memberPageSize is the maximum page size Discord allows on the
	// guild members endpoint.
	memberPageSize = 1000

	defaultRateLimit = 5.0
)

// DiscordUser represents a Discord user object.
type DiscordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Bot        bool   `json:"bot"`
}

// DiscordGuildMember represents a member within a guild context.
type DiscordGuildMember struct {
	User DiscordUser `json:"user"`
	Nick string      `json:"nick"`
}

// DiscordGuild represents a Discord guild (server).
type DiscordGuild struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	ApproximateMemberCount int    `json:"approximate_member_count"`
}

// DisplayName resolves the name shown in the member list:
// nickname, then global name, then account username.
func (m DiscordGuildMember) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// DiscordService implements [MembershipService] against the Discord REST API
// using bot-token authentication.
type DiscordService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDiscordService creates a Discord membership service from explicit
// credentials. Required keys: "token". Optional: "base_url", used by tests
// and proxies.
func NewDiscordService(credentials map[string]string, client *http.Client) (*DiscordService, error) {
	token := credentials["token"]
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", shared.ErrMissingCredentials)
	}

	baseURL := credentials["base_url"]
	if baseURL == "" {
		baseURL = discordBaseURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &DiscordService{
		baseURL:    baseURL,
		token:      token,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
	}, nil
}

// SetRateLimit adjusts the client-side request rate (requests per second).
func (d *DiscordService) SetRateLimit(perSecond float64) {
	if perSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// Name returns the service name.
func (d *DiscordService) Name() string {
	return "Discord"
}

// Authenticate verifies the bot token by fetching the bot's own user.
func (d *DiscordService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if token := credentials["token"]; token != "" {
		d.token = token
	}

	var user DiscordUser
	if err := d.get(ctx, "/users/@me", &user); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return nil
}

// GetGuild retrieves guild metadata including the approximate member count.
func (d *DiscordService) GetGuild(ctx context.Context, guildID string) (*Guild, error) {
	if guildID == "" {
		return nil, fmt.Errorf("%w: guild ID is required", shared.ErrMissingArgument)
	}

	var guild DiscordGuild
	path := fmt.Sprintf("/guilds/%s?with_counts=true", url.PathEscape(guildID))
	if err := d.get(ctx, path, &guild); err != nil {
		return nil, err
	}

	return &Guild{
		ID:          guild.ID,
		Name:        guild.Name,
		MemberCount: guild.ApproximateMemberCount,
	}, nil
}

// GetMembers retrieves the complete member list for a guild.
//
// Discord pages the members endpoint by snowflake; each request passes the
// highest ID seen so far as `after` until a short page comes back. Requires
// the Server Members intent on the bot.
func (d *DiscordService) GetMembers(ctx context.Context, guildID string) ([]models.Member, error) {
	if guildID == "" {
		return nil, fmt.Errorf("%w: guild ID is required", shared.ErrMissingArgument)
	}

	var members []models.Member
	after := ""

	for {
		path := fmt.Sprintf("/guilds/%s/members?limit=%d", url.PathEscape(guildID), memberPageSize)
		if after != "" {
			path += "&after=" + url.QueryEscape(after)
		}

		var page []DiscordGuildMember
		if err := d.get(ctx, path, &page); err != nil {
			return nil, err
		}

		for _, gm := range page {
			members = append(members, models.Member{
				ID:          gm.User.ID,
				Username:    gm.User.Username,
				DisplayName: gm.DisplayName(),
				Bot:         gm.User.Bot,
			})
			after = gm.User.ID
		}

		if len(page) < memberPageSize {
			break
		}
	}

	return members, nil
}

// get performs an authenticated GET against the Discord API and decodes the
// JSON response into out.
func (d *DiscordService) get(ctx context.Context, path string, out any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bot "+d.token)
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrInvalidCredentials, resp.StatusCode)
	case http.StatusForbidden:
		return fmt.Errorf("%w: status %d (is the Server Members intent enabled?)", shared.ErrAPIRequest, resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w: status %d", shared.ErrGuildNotFound, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", shared.ErrRateLimited, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
