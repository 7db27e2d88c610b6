package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandevgo/briefbot/internal/core"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAnalysesRepo_SaveAndLatest(t *testing.T) {
	repo := NewAnalysesRepo(newTestDB(t))
	ctx := context.Background()

	first := core.Analysis{
		Subject:  "Acme",
		Category: "retail",
		Mode:     "auto",
		Artifact: map[string]any{"campaignSummary": map[string]any{"overview": "first"}},
	}
	if _, err := repo.SaveAnalysis(ctx, first); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	second := first
	second.Artifact = map[string]any{"campaignSummary": map[string]any{"overview": "second"}}
	id, err := repo.SaveAnalysis(ctx, second)
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	latest, err := repo.LatestAnalysis(ctx, "Acme")
	if err != nil {
		t.Fatalf("LatestAnalysis() error = %v", err)
	}
	if latest == nil {
		t.Fatal("LatestAnalysis() = nil, want stored analysis")
	}
	if latest.ID != id {
		t.Errorf("ID = %d, want %d (newest row)", latest.ID, id)
	}

	summary, ok := latest.Artifact["campaignSummary"].(map[string]any)
	if !ok || summary["overview"] != "second" {
		t.Errorf("artifact round-trip failed: %v", latest.Artifact)
	}
	if latest.Category != "retail" || latest.Mode != "auto" || latest.Fallback {
		t.Errorf("unexpected fields: %+v", latest)
	}
	if latest.CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated by the database")
	}
}

func TestAnalysesRepo_LatestMatchesCaseInsensitively(t *testing.T) {
	repo := NewAnalysesRepo(newTestDB(t))
	ctx := context.Background()

	a := core.Analysis{Subject: "Acme", Mode: "auto", Artifact: map[string]any{}}
	if _, err := repo.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	latest, err := repo.LatestAnalysis(ctx, "acme")
	if err != nil {
		t.Fatalf("LatestAnalysis() error = %v", err)
	}
	if latest == nil {
		t.Fatal("lookup should match regardless of subject casing")
	}
}

func TestAnalysesRepo_LatestMiss(t *testing.T) {
	repo := NewAnalysesRepo(newTestDB(t))

	latest, err := repo.LatestAnalysis(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("LatestAnalysis() error = %v", err)
	}
	if latest != nil {
		t.Errorf("LatestAnalysis() = %+v, want nil for unknown subject", latest)
	}
}

func TestAnalysesRepo_RecentNewestFirst(t *testing.T) {
	repo := NewAnalysesRepo(newTestDB(t))
	ctx := context.Background()

	for _, subject := range []string{"one", "two", "three"} {
		a := core.Analysis{Subject: subject, Mode: "auto", Artifact: map[string]any{}}
		if _, err := repo.SaveAnalysis(ctx, a); err != nil {
			t.Fatalf("SaveAnalysis(%s) error = %v", subject, err)
		}
	}

	recent, err := repo.RecentAnalyses(ctx, 2)
	if err != nil {
		t.Fatalf("RecentAnalyses() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d analyses, want 2", len(recent))
	}
	if recent[0].Subject != "three" || recent[1].Subject != "two" {
		t.Errorf("order = %s, %s; want three, two", recent[0].Subject, recent[1].Subject)
	}
}
