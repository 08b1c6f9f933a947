package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/desertthunder/rollcall/internal/shared"
)

func newTestService(t *testing.T, handler http.Handler) (*DiscordService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewDiscordService(map[string]string{
		"token":    "test-token",
		"base_url": server.URL,
	}, server.Client())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.SetRateLimit(1000)
	return svc, server
}

func TestNewDiscordService(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		_, err := NewDiscordService(map[string]string{}, nil)
		if err == nil {
			t.Fatal("expected error for missing token")
		}
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("with valid credentials", func(t *testing.T) {
		svc, err := NewDiscordService(map[string]string{"token": "abc"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.Name() != "Discord" {
			t.Errorf("expected service name 'Discord', got %s", svc.Name())
		}
	})
}

func TestDiscordService(t *testing.T) {
	t.Run("Authenticate", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bot test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(DiscordUser{ID: "42", Username: "rollcall-bot", Bot: true})
		}))

		if err := svc.Authenticate(context.Background(), map[string]string{}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Authenticate with bad token", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		err := svc.Authenticate(context.Background(), map[string]string{})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("GetGuild", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("with_counts") != "true" {
				t.Error("expected with_counts=true")
			}
			json.NewEncoder(w).Encode(DiscordGuild{ID: "99", Name: "Cohort 7", ApproximateMemberCount: 120})
		}))

		guild, err := svc.GetGuild(context.Background(), "99")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if guild.Name != "Cohort 7" || guild.MemberCount != 120 {
			t.Errorf("unexpected guild: %+v", guild)
		}
	})

	t.Run("GetGuild not found", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := svc.GetGuild(context.Background(), "404")
		if !errors.Is(err, shared.ErrGuildNotFound) {
			t.Errorf("expected ErrGuildNotFound, got %v", err)
		}
	})

	t.Run("GetMembers paginates", func(t *testing.T) {
		// 1500 members forces two pages
		total := memberPageSize + 500
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			after := 0
			if v := r.URL.Query().Get("after"); v != "" {
				after, _ = strconv.Atoi(v)
			}

			var page []DiscordGuildMember
			for id := after + 1; id <= total && len(page) < memberPageSize; id++ {
				page = append(page, DiscordGuildMember{
					User: DiscordUser{ID: strconv.Itoa(id), Username: fmt.Sprintf("user%d", id)},
				})
			}
			json.NewEncoder(w).Encode(page)
		}))

		members, err := svc.GetMembers(context.Background(), "99")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(members) != total {
			t.Errorf("expected %d members, got %d", total, len(members))
		}
	})

	t.Run("GetMembers forbidden", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := svc.GetMembers(context.Background(), "99")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("GetMembers requires guild ID", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		_, err := svc.GetMembers(context.Background(), "")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestDisplayName(t *testing.T) {
	tc := []struct {
		name   string
		member DiscordGuildMember
		want   string
	}{
		{
			name:   "nickname wins",
			member: DiscordGuildMember{Nick: "Johnny", User: DiscordUser{Username: "jdoe", GlobalName: "John Doe"}},
			want:   "Johnny",
		},
		{
			name:   "global name next",
			member: DiscordGuildMember{User: DiscordUser{Username: "jdoe", GlobalName: "John Doe"}},
			want:   "John Doe",
		},
		{
			name:   "username last",
			member: DiscordGuildMember{User: DiscordUser{Username: "jdoe"}},
			want:   "jdoe",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.member.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
