// Package database owns the lifetime of the process-wide connection to the course store.
//
// A Manager connects at most once and hands the same repository to every caller afterwards. The first call to
// Acquire pays for the connection; later calls only read the cached handle.
package database

import (
	"context"
	"sync"
	"time"

	"courseapi/internal/repository"

	"github.com/golang/glog"
)

// Connector establishes a new connection to the store and returns a repository bound to it.
type Connector func(ctx context.Context) (repository.Repository, error)

// Manager lazily establishes and caches a single repository.
type Manager struct {
	connect Connector
	timeout time.Duration

	lock *sync.RWMutex
	repo repository.Repository
}

// NewManager returns a Manager that uses connect for the first Acquire. A zero timeout leaves the connection
// attempt bounded only by the caller's context.
func NewManager(connect Connector, timeout time.Duration) *Manager {
	return &Manager{
		connect: connect,
		timeout: timeout,
		lock:    &sync.RWMutex{},
	}
}

// Acquire returns the cached repository, connecting first if no connection has been made yet. Connection errors
// are returned as-is and nothing is cached, so a later call will try again.
func (m *Manager) Acquire(ctx context.Context) (repository.Repository, error) {
	m.lock.RLock()
	repo := m.repo
	m.lock.RUnlock()
	if repo != nil {
		return repo, nil
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	// Another caller may have connected while we waited for the write lock.
	if m.repo != nil {
		return m.repo, nil
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	glog.Infof("⏳ Connecting to course store...")
	repo, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}

	m.repo = repo
	return repo, nil
}

// Connected reports whether a connection has been established.
func (m *Manager) Connected() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.repo != nil
}

// Close closes the cached connection, if any. The Manager can connect again afterwards.
func (m *Manager) Close(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.repo == nil {
		return nil
	}

	err := m.repo.Close(ctx)
	m.repo = nil
	return err
}
