package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/tasting-booking-gateway/internal/db"
)

// Requires a disposable Postgres database; set JOURNAL_TEST_DSN to run.
func TestPgRepository_InsertListPrune(t *testing.T) {
	dsn := os.Getenv("JOURNAL_TEST_DSN")
	if dsn == "" {
		t.Skip("JOURNAL_TEST_DSN not set")
	}
	ctx := context.Background()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("schema: %v", err)
	}

	repo := NewPgRepository(pool)
	provider := "journal-test-" + uuid.NewString()
	old := time.Now().Add(-48 * time.Hour)

	events := []Event{
		{Type: EventBookingRejected, ProviderID: provider, ServiceID: "svc", EventDate: "2024-01-02", EventTime: "10:00", Payload: []byte(`{"errors":["please choose a time"]}`), CreatedAt: old},
		{Type: EventBookingForwarded, ProviderID: provider, ServiceID: "svc", EventDate: "2024-01-02", EventTime: "11:00", Payload: []byte(`{}`)},
	}
	for _, ev := range events {
		if err := repo.Insert(ctx, ev); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, provider, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Type != EventBookingForwarded {
		t.Fatalf("expected newest first, got %+v", got)
	}

	if _, err := repo.PruneBefore(ctx, time.Now().Add(-24*time.Hour)); err != nil {
		t.Fatalf("prune: %v", err)
	}
	got, err = repo.ListRecent(ctx, provider, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].EventTime != "11:00" {
		t.Fatalf("expected only the recent event to remain, got %+v", got)
	}
}
