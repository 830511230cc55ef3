package worker

import (
	"context"
	"sync"
)

// Worker runs until ctx is done.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker and blocks until ctx is done or a worker fails, in
// which case the others are stopped and the first error is returned.
func (m *Manager) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				errs <- err
				cancel()
			}
		}(w)
	}
	// Wait for cancellation (ours or the caller's) then for workers to exit.
	<-ctx.Done()
	wg.Wait()
	close(errs)
	// Report the first worker error, if any.
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
