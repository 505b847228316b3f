// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey(t *testing.T) {
	users := Bucket("user/")
	assert.Equal(t, []byte("user/alice"), users.Key([]byte("alice")))
	assert.Equal(t, []byte("user/"), users.Key(nil))

	// the prefix is never shared between keys
	k := []byte("a")
	k1 := users.Key(k)
	k2 := users.Key([]byte("b"))
	assert.Equal(t, []byte("user/a"), k1)
	assert.Equal(t, []byte("user/b"), k2)
	assert.Equal(t, []byte("a"), k)
}
