// Package cache provides send-guard implementations that keep the chase loop
// from double-sending an attempt.
package cache

import (
	"context"
	"sync"
	"time"

	appchase "github.com/meda/backend/internal/application/chase"
)

// entry represents a claimed token with expiration
type entry struct {
	expiresAt time.Time
}

// MemorySendGuard implements SendGuard using an in-memory map. Suitable for
// single-instance deployments and testing.
type MemorySendGuard struct {
	mu        sync.Mutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemorySendGuard creates an in-memory send guard. It starts a background
// goroutine to clean up expired tokens.
func NewMemorySendGuard() *MemorySendGuard {
	guard := &MemorySendGuard{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// Claim takes the token if it is free. Returns false when another claim
// already holds it and has not expired.
func (g *MemorySendGuard) Claim(_ context.Context, token string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[token]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	g.entries[token] = entry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Release frees a claimed token so a retry can claim it again. Releasing an
// unclaimed token is a no-op.
func (g *MemorySendGuard) Release(_ context.Context, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, token)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *MemorySendGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// Size returns the number of held tokens (for testing/monitoring)
func (g *MemorySendGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *MemorySendGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *MemorySendGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for token, e := range g.entries {
		if now.After(e.expiresAt) {
			delete(g.entries, token)
		}
	}
}

// Ensure MemorySendGuard implements SendGuard
var _ appchase.SendGuard = (*MemorySendGuard)(nil)
