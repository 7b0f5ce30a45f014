package service

import (
	"context"
	"log"
	"sync"
	"time"

	"inspectkit/internal/cache"
	"inspectkit/internal/model"
)

const defaultDraftDelay = 2 * time.Second

// DraftService debounces draft autosaves: a burst of edits within the delay
// window collapses into a single cache write, fired after the last edit.
type DraftService struct {
	cache cache.DraftCache
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingDraft
}

type pendingDraft struct {
	timer *time.Timer
	tpl   *model.Template
}

// NewDraftService creates a draft service; delay <= 0 uses the 2s default
func NewDraftService(c cache.DraftCache, delay time.Duration) *DraftService {
	if delay <= 0 {
		delay = defaultDraftDelay
	}
	return &DraftService{
		cache:   c,
		delay:   delay,
		pending: make(map[string]*pendingDraft),
	}
}

// Save schedules a debounced write of the operator's draft. Each call
// replaces the pending template and restarts the timer.
func (s *DraftService) Save(operatorID string, tpl *model.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[operatorID]; ok {
		p.tpl = tpl
		p.timer.Reset(s.delay)
		return
	}
	p := &pendingDraft{tpl: tpl}
	p.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(context.Background(), operatorID); err != nil {
			log.Printf("draft autosave for %s: %v", operatorID, err)
		}
	})
	s.pending[operatorID] = p
}

// Flush writes any pending draft immediately
func (s *DraftService) Flush(ctx context.Context, operatorID string) error {
	s.mu.Lock()
	p, ok := s.pending[operatorID]
	if ok {
		p.timer.Stop()
		delete(s.pending, operatorID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return s.cache.Set(ctx, operatorID, p.tpl)
}

// Get returns the latest draft, preferring a not-yet-flushed pending write
func (s *DraftService) Get(ctx context.Context, operatorID string) (*model.Template, error) {
	if err := s.Flush(ctx, operatorID); err != nil {
		return nil, err
	}
	return s.cache.Get(ctx, operatorID)
}

// Discard cancels any pending write and clears the cached draft
func (s *DraftService) Discard(ctx context.Context, operatorID string) error {
	s.mu.Lock()
	if p, ok := s.pending[operatorID]; ok {
		p.timer.Stop()
		delete(s.pending, operatorID)
	}
	s.mu.Unlock()
	return s.cache.Delete(ctx, operatorID)
}

// Stop flushes every pending draft; called on shutdown
func (s *DraftService) Stop(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.Flush(ctx, id); err != nil {
			log.Printf("draft flush for %s on shutdown: %v", id, err)
		}
	}
}
