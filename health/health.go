// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type Commits struct {
	LastOp        string     `json:"lastOp"`
	LastCommit    *time.Time `json:"lastCommit"`
	LastFailure   *time.Time `json:"lastFailure"`
	FailureReason string     `json:"failureReason,omitempty"`
}

type Status struct {
	Healthy bool     `json:"healthy"`
	Commits *Commits `json:"commits"`
}

// Health tracks whether operations still reach storage.
type Health struct {
	lock        sync.RWMutex
	lastOp      string
	lastCommit  time.Time
	lastFailure time.Time
	failure     error
}

func New() *Health {
	return &Health{}
}

// Committed records an operation committed to storage.
func (h *Health) Committed(op string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastOp = op
	h.lastCommit = time.Now()
	h.failure = nil
}

// CommitFailed records a storage failure. Rejected operations are not failures.
func (h *Health) CommitFailed(op string, err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastOp = op
	h.lastFailure = time.Now()
	h.failure = err
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	commits := &Commits{LastOp: h.lastOp}
	if !h.lastCommit.IsZero() {
		t := h.lastCommit
		commits.LastCommit = &t
	}
	if !h.lastFailure.IsZero() {
		t := h.lastFailure
		commits.LastFailure = &t
	}
	if h.failure != nil {
		commits.FailureReason = h.failure.Error()
	}
	return &Status{
		Healthy: h.failure == nil,
		Commits: commits,
	}
}
