package cli

import (
	"context"
	"fmt"
)

// watchState starts the state file watcher and returns its update channel.
// The channel is nil when no watcher is configured.
func watchState(ctx context.Context) (<-chan struct{}, error) {
	if StateWatcher == nil {
		return nil, nil
	}
	if err := StateWatcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("watching state file: %w", err)
	}
	return StateWatcher.Updates(), nil
}

// reloadState refreshes the cached state from disk after another process
// changed it.
func reloadState() error {
	if StateMgr == nil {
		return nil
	}
	if err := StateMgr.Load(); err != nil {
		return fmt.Errorf("reloading state: %w", err)
	}
	return nil
}

// followState reloads the cached state on every update until ctx is done.
func followState(ctx context.Context, updates <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			_ = reloadState()
		}
	}
}
