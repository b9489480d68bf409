package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakePruner struct {
	cutoff time.Time
	err    error
}

func (f *fakePruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestRunOnce_UsesRetention(t *testing.T) {
	p := &fakePruner{}
	before := time.Now()
	runOnce(context.Background(), zaptest.NewLogger(t), p, 48*time.Hour)

	want := before.Add(-48 * time.Hour)
	if p.cutoff.Before(want) || p.cutoff.After(time.Now().Add(-48*time.Hour)) {
		t.Fatalf("cutoff %s not within retention window of %s", p.cutoff, want)
	}
}

func TestRunOnce_ErrorIsLogged(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	runOnce(context.Background(), zaptest.NewLogger(t), p, time.Hour)
	if p.cutoff.IsZero() {
		t.Fatal("expected prune to be attempted")
	}
}
