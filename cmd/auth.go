package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/rollcall/internal/server"
	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// discordEndpoint is the OAuth2 endpoint pair for the Discord API.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// oauthConfig builds the OAuth2 config from the Discord application credentials.
func (r *Runner) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.config.Discord.OAuth.ClientID,
		ClientSecret: r.config.Discord.OAuth.ClientSecret,
		RedirectURL:  r.config.Discord.OAuth.RedirectURI,
		Scopes:       []string{"identify", "guilds"},
		Endpoint:     discordEndpoint,
	}
}

// AuthLogin performs the OAuth2 authorization code flow for the Discord application.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if r.config.Discord.OAuth.ClientID == "" || r.config.Discord.OAuth.ClientSecret == "" {
		return fmt.Errorf("%w: Discord client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(r.oauthConfig(), "authorization")
	if err != nil {
		return err
	}

	r.config.Discord.Token = token.AccessToken
	if err := shared.SaveConfig(configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", configPath)
	r.writePlain("You can now use: rollcall check run\n")

	return nil
}

// AuthStatus verifies the configured bot token against the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.discord == nil {
		return fmt.Errorf("%w: Discord service not initialized, set discord.token in config.toml", shared.ErrServiceUnavailable)
	}

	r.logger.Info("checking auth status")

	if err := r.discord.Authenticate(ctx, map[string]string{"token": r.config.Discord.Token}); err != nil {
		r.writePlain("✗ Authentication failed\n")
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Authenticated with %s\n", r.discord.Name())
	if r.config.Discord.GuildID != "" {
		guild, err := r.discord.GetGuild(ctx, r.config.Discord.GuildID)
		if err != nil {
			return fmt.Errorf("token valid but guild lookup failed: %w", err)
		}
		r.writePlain("Server: %s (~%d members)\n", guild.Name, guild.MemberCount)
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *oauth2.Config, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := config.AuthCodeURL(state)
	oauthHandler := server.NewOAuthHandler(config, state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Discord %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
