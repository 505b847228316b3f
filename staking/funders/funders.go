// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package funders

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/thor"
)

var (
	ErrAlreadyAuthorized = errors.New("funder already authorized")
	ErrCapacityExceeded  = errors.New("funder capacity exceeded")
	ErrNotFound          = errors.New("funder not found")
	// ErrAuthority is returned when the pool authority is added or removed as a funder.
	ErrAuthority = errors.New("cannot modify pool authority as funder")
)

// Set is a fixed capacity set of funders. An empty slot holds the zero address.
// Removed entries leave a tombstone which a later Add can reuse.
type Set [thor.MaxFunders]thor.Address

// Contains returns whether addr is in the set. The zero address is never contained.
func (s *Set) Contains(addr thor.Address) bool {
	if addr.IsZero() {
		return false
	}
	for _, f := range s {
		if f == addr {
			return true
		}
	}
	return false
}

// Add writes candidate into the first empty slot.
func (s *Set) Add(authority, candidate thor.Address) error {
	if candidate == authority {
		return ErrAuthority
	}
	if candidate.IsZero() {
		return errors.New("zero address cannot be a funder")
	}
	if s.Contains(candidate) {
		return ErrAlreadyAuthorized
	}
	for i := range s {
		if s[i].IsZero() {
			s[i] = candidate
			return nil
		}
	}
	return ErrCapacityExceeded
}

// Remove clears the slot holding candidate.
func (s *Set) Remove(authority, candidate thor.Address) error {
	if candidate == authority {
		return ErrAuthority
	}
	if candidate.IsZero() {
		return ErrNotFound
	}
	for i := range s {
		if s[i] == candidate {
			s[i] = thor.Address{}
			return nil
		}
	}
	return ErrNotFound
}

// List returns the funders in slot order, skipping empty slots.
func (s *Set) List() []thor.Address {
	list := make([]thor.Address, 0, len(s))
	for _, f := range s {
		if !f.IsZero() {
			list = append(list, f)
		}
	}
	return list
}

// Len returns the number of funders.
func (s *Set) Len() int {
	n := 0
	for _, f := range s {
		if !f.IsZero() {
			n++
		}
	}
	return n
}
