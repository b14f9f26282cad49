package service

import (
	"context"
	"time"
)

// beginWork reserves a queue slot and then the single in-flight slot on the
// engine. Returns a release func to be deferred.
func (s *Service) beginWork(ctx context.Context, e *engine) (func(), error) {
	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	// Try to reserve a queue slot with timeout
	timer := time.NewTimer(s.maxWait)
	defer timer.Stop()
	select {
	case e.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{modelID: e.model.ID}
	}

	// Wait to acquire the single in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-e.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(s.maxWait)
	defer timer2.Stop()
	select {
	case e.genCh <- struct{}{}:
		acquired = true
		s.mu.Lock()
		e.lastUsed = time.Now()
		s.mu.Unlock()
		return func() { <-e.genCh; <-e.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, tooBusyError{modelID: e.model.ID}
	}
}
