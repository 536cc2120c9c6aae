// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/mock"
	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockWorker counts Run calls and blocks until its context is cancelled.
type mockWorker struct {
	runCount atomic.Int32
	stopped  atomic.Bool
}

func (m *mockWorker) Run(ctx context.Context) {
	m.runCount.Add(1)
	<-ctx.Done()
	m.stopped.Store(true)
}

func runUntilCancelled(t *testing.T, ws *Workers) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop after cancellation")
	}
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &mockWorker{}, &mockWorker{}, &mockWorker{}

	runUntilCancelled(t, &Workers{workers: []Worker{w1, w2, w3}})

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.EqualValues(t, 1, w.runCount.Load(), "worker[%d]", i)
		assert.True(t, w.stopped.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	assert.NotPanics(t, func() {
		ws.Run(context.Background())
	})
}

func TestNewWorkers(t *testing.T) {
	services := &service.Services{}

	tests := []struct {
		name      string
		interval  time.Duration
		wantCount int
	}{
		{name: "purge enabled", interval: time.Minute, wantCount: 1},
		{name: "purge disabled", interval: 0, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkers(services, config.Workers{ResetTokenPurgeInterval: tt.interval}, logger.Nop())
			assert.Len(t, ws.workers, tt.wantCount)
		})
	}
}

func TestResetTokenPurgeWorker_PurgesOnTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	purger := mock.NewMockAuthService(ctrl)

	var calls atomic.Int32
	purger.EXPECT().
		PurgeExpiredResetTokens(gomock.Any()).
		DoAndReturn(func(context.Context) (int64, error) {
			calls.Add(1)
			return 2, nil
		}).
		MinTimes(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewResetTokenPurgeWorker(purger, 5*time.Millisecond, logger.Nop()).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestResetTokenPurgeWorker_KeepsRunningAfterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	purger := mock.NewMockAuthService(ctrl)

	var calls atomic.Int32
	purger.EXPECT().
		PurgeExpiredResetTokens(gomock.Any()).
		DoAndReturn(func(context.Context) (int64, error) {
			calls.Add(1)
			return 0, assert.AnError
		}).
		MinTimes(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewResetTokenPurgeWorker(purger, 5*time.Millisecond, logger.Nop()).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestResetTokenPurgeWorker_StopsWithoutTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	purger := mock.NewMockAuthService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewResetTokenPurgeWorker(purger, time.Hour, logger.Nop()).Run(ctx)
}
