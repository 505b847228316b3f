// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/rewardpool/log"
)

var logger = log.WithContext("pkg", "clock")

// MaxOffset is the largest tolerated difference between the local clock and NTP.
const MaxOffset = 5 * time.Second

// Source provides the current unix time in seconds.
type Source interface {
	Now() uint64
}

// System is the local wall clock, made monotonic.
// A wall clock step backwards is absorbed by repeating the last reading.
type System struct {
	last atomic.Uint64
}

// NewSystem creates a system clock.
func NewSystem() *System {
	return &System{}
}

// Now implements Source.
func (s *System) Now() uint64 {
	now := uint64(time.Now().Unix())
	for {
		last := s.last.Load()
		if now <= last {
			return last
		}
		if s.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Mock is a manually driven clock.
type Mock struct {
	now atomic.Uint64
}

// NewMock creates a mock clock at the given time.
func NewMock(now uint64) *Mock {
	m := &Mock{}
	m.now.Store(now)
	return m
}

// Now implements Source.
func (m *Mock) Now() uint64 {
	return m.now.Load()
}

// Set sets the time. It panics if the time would go backwards.
func (m *Mock) Set(now uint64) {
	if now < m.now.Load() {
		panic("mock clock moved backwards")
	}
	m.now.Store(now)
}

// Advance moves the time forward by d seconds.
func (m *Mock) Advance(d uint64) uint64 {
	return m.now.Add(d)
}

// CheckOffset queries the NTP server and warns if the local clock is off by more than MaxOffset.
func CheckOffset(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return 0, err
	}
	offset := resp.ClockOffset
	if offset > MaxOffset || offset < -MaxOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
	return offset, nil
}
