// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"log/slog"
	"time"
)

// Sweeper periodically drops idle sessions from a Manager.
type Sweeper struct {
	manager  *Manager
	timeout  time.Duration
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a sweeper over manager. Non-positive timeout or
// interval values fall back to defaults.
func NewSweeper(manager *Manager, timeout, interval time.Duration) *Sweeper {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		manager:  manager,
		timeout:  timeout,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop terminates the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.manager.sweepIdle(s.timeout); removed > 0 {
				slog.Info("Swept idle sessions", "removed", removed)
			}
		case <-s.stopCh:
			return
		}
	}
}
