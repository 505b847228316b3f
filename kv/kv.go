// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key/value store the staged state is committed to.
package kv

// Getter reads committed values.
type Getter interface {
	// Get returns the value of key. A missing key yields an error
	// that IsNotFound reports.
	Get(key []byte) (value []byte, err error)
	IsNotFound(error) bool
}

// Putter writes values.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch collects writes that are applied atomically on Write.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Store is a key/value store written only through batches.
type Store interface {
	Getter

	NewBatch() Batch
	Close() error
}
