package repositories

import (
	"testing"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
)

func newTestRepo(t *testing.T) *MemberRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewMemberRepository(db)
}

func TestNextSequence(t *testing.T) {
	repo := newTestRepo(t)

	first, err := NextSequence(repo.db, "members")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := NextSequence(repo.db, "members")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("expected sequences 1 and 2, got %d and %d", first, second)
	}
}

func TestMemberRepository(t *testing.T) {
	member := models.Member{ID: "1001", Username: "jdoe", DisplayName: "John Doe"}

	t.Run("create and get", func(t *testing.T) {
		repo := newTestRepo(t)

		persisted := models.NewPersistedMember(0, "99", "snap-1", member)
		if err := repo.Create(persisted); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if persisted.Sequence == 0 {
			t.Error("expected a generated sequence")
		}

		got, err := repo.GetByDiscordID("99", "1001")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Username != "jdoe" || got.Display != "John Doe" || got.SnapshotID != "snap-1" {
			t.Errorf("unexpected member: %+v", got)
		}
	})

	t.Run("create rejects invalid member", func(t *testing.T) {
		repo := newTestRepo(t)

		persisted := models.NewPersistedMember(0, "99", "snap-1", models.Member{ID: "1001"})
		if err := repo.Create(persisted); err == nil {
			t.Error("expected validation error for missing username")
		}
	})

	t.Run("duplicate discord id in guild rejected", func(t *testing.T) {
		repo := newTestRepo(t)

		if err := repo.Create(models.NewPersistedMember(0, "99", "snap-1", member)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.Create(models.NewPersistedMember(0, "99", "snap-2", member)); err == nil {
			t.Error("expected unique constraint error")
		}

		// Same member in a different guild is fine
		if err := repo.Create(models.NewPersistedMember(0, "100", "snap-1", member)); err != nil {
			t.Errorf("expected no error across guilds, got %v", err)
		}
	})

	t.Run("update refreshes name fields", func(t *testing.T) {
		repo := newTestRepo(t)

		persisted := models.NewPersistedMember(0, "99", "snap-1", member)
		if err := repo.Create(persisted); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		persisted.Display = "Johnny"
		persisted.SnapshotID = "snap-2"
		if err := repo.Update(persisted); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetByDiscordID("99", "1001")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Display != "Johnny" || got.SnapshotID != "snap-2" {
			t.Errorf("unexpected member after update: %+v", got)
		}
	})

	t.Run("update missing member", func(t *testing.T) {
		repo := newTestRepo(t)

		persisted := models.NewPersistedMember(0, "99", "snap-1", member)
		if err := repo.Update(persisted); err == nil {
			t.Error("expected error updating absent member")
		}
	})

	t.Run("list preserves sequence order", func(t *testing.T) {
		repo := newTestRepo(t)

		for _, m := range []models.Member{
			{ID: "1", Username: "a", DisplayName: "Alpha"},
			{ID: "2", Username: "b", DisplayName: "Beta"},
			{ID: "3", Username: "c", DisplayName: "Gamma"},
		} {
			if err := repo.Create(models.NewPersistedMember(0, "99", "snap-1", m)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		members, err := repo.Members("99")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("expected 3 members, got %d", len(members))
		}
		if members[0].DisplayName != "Alpha" || members[2].DisplayName != "Gamma" {
			t.Errorf("unexpected order: %+v", members)
		}
	})

	t.Run("delete by guild", func(t *testing.T) {
		repo := newTestRepo(t)

		if err := repo.Create(models.NewPersistedMember(0, "99", "snap-1", member)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.Create(models.NewPersistedMember(0, "100", "snap-1", member)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		removed, err := repo.DeleteByGuild("99")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 row removed, got %d", removed)
		}

		remaining, err := repo.Members("100")
		if err != nil || len(remaining) != 1 {
			t.Errorf("expected other guild untouched, got %v %v", remaining, err)
		}
	})
}

func TestMemberCacheAdapter(t *testing.T) {
	member := models.Member{ID: "1001", Username: "jdoe", DisplayName: "John Doe"}

	t.Run("caches new member", func(t *testing.T) {
		repo := newTestRepo(t)
		adapter := NewMemberCacheAdapter(repo)

		if err := adapter.CacheMember("99", "snap-1", member); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetByDiscordID("99", "1001")
		if err != nil || got.SnapshotID != "snap-1" {
			t.Errorf("expected cached member under snap-1, got %v %v", got, err)
		}
	})

	t.Run("recache updates in place", func(t *testing.T) {
		repo := newTestRepo(t)
		adapter := NewMemberCacheAdapter(repo)

		if err := adapter.CacheMember("99", "snap-1", member); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		renamed := member
		renamed.DisplayName = "Johnny"
		if err := adapter.CacheMember("99", "snap-2", renamed); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		members, err := repo.Members("99")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(members) != 1 {
			t.Fatalf("expected 1 cached member, got %d", len(members))
		}
		if members[0].DisplayName != "Johnny" {
			t.Errorf("expected refreshed display name, got %s", members[0].DisplayName)
		}
	})
}
