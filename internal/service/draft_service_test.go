package service

import (
	"context"
	"testing"
	"time"

	"inspectkit/internal/model"
)

func TestDraftSaveDebouncesBursts(t *testing.T) {
	drafts := newFakeDraftCache()
	svc := NewDraftService(drafts, 30*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tpl := model.NewTemplate("op1", "draft")
		tpl.Description = string(rune('a' + i))
		svc.Save("op1", tpl)
	}

	// nothing written while the window is open
	if d, _ := drafts.Get(ctx, "op1"); d != nil {
		t.Fatal("draft written before debounce window elapsed")
	}

	deadline := time.Now().Add(time.Second)
	for {
		d, _ := drafts.Get(ctx, "op1")
		if d != nil {
			if d.Description != "e" {
				t.Fatalf("flushed draft = %q, want last write %q", d.Description, "e")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("draft never flushed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDraftFlushWritesImmediately(t *testing.T) {
	drafts := newFakeDraftCache()
	svc := NewDraftService(drafts, time.Hour)
	ctx := context.Background()

	svc.Save("op1", model.NewTemplate("op1", "draft"))
	if err := svc.Flush(ctx, "op1"); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if d, _ := drafts.Get(ctx, "op1"); d == nil {
		t.Fatal("flush did not write pending draft")
	}

	// flushing with nothing pending is a no-op
	if err := svc.Flush(ctx, "op1"); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

func TestDraftGetPrefersPendingWrite(t *testing.T) {
	drafts := newFakeDraftCache()
	svc := NewDraftService(drafts, time.Hour)
	ctx := context.Background()

	stale := model.NewTemplate("op1", "stale")
	drafts.Set(ctx, "op1", stale)

	fresh := model.NewTemplate("op1", "fresh")
	svc.Save("op1", fresh)

	got, err := svc.Get(ctx, "op1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Name != "fresh" {
		t.Fatalf("Get returned %+v, want pending draft", got)
	}
}

func TestDraftDiscardCancelsPending(t *testing.T) {
	drafts := newFakeDraftCache()
	svc := NewDraftService(drafts, 20*time.Millisecond)
	ctx := context.Background()

	svc.Save("op1", model.NewTemplate("op1", "doomed"))
	if err := svc.Discard(ctx, "op1"); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	time.Sleep(60 * time.Millisecond)
	if d, _ := drafts.Get(ctx, "op1"); d != nil {
		t.Fatal("discarded draft resurfaced after timer")
	}
}

func TestDraftStopFlushesAll(t *testing.T) {
	drafts := newFakeDraftCache()
	svc := NewDraftService(drafts, time.Hour)
	ctx := context.Background()

	svc.Save("op1", model.NewTemplate("op1", "a"))
	svc.Save("op2", model.NewTemplate("op2", "b"))
	svc.Stop(ctx)

	for _, op := range []string{"op1", "op2"} {
		if d, _ := drafts.Get(ctx, op); d == nil {
			t.Errorf("draft for %s not flushed on stop", op)
		}
	}
}
