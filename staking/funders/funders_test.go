// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package funders

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/thor"
)

func addr(b byte) thor.Address {
	return thor.BytesToAddress([]byte{b})
}

func TestAddUntilFull(t *testing.T) {
	var (
		set       Set
		authority = addr(0xaa)
	)
	for i := 1; i <= thor.MaxFunders; i++ {
		require.NoError(t, set.Add(authority, addr(byte(i))))
	}
	assert.Equal(t, thor.MaxFunders, set.Len())

	assert.ErrorIs(t, set.Add(authority, addr(6)), ErrCapacityExceeded)
	assert.ErrorIs(t, set.Add(authority, addr(3)), ErrAlreadyAuthorized)
}

func TestAuthorityIsNeverStored(t *testing.T) {
	var (
		set       Set
		authority = addr(0xaa)
	)
	assert.ErrorIs(t, set.Add(authority, authority), ErrAuthority)
	assert.ErrorIs(t, set.Remove(authority, authority), ErrAuthority)
	assert.False(t, set.Contains(authority))
	assert.Zero(t, set.Len())
}

func TestRemoveReusesSlot(t *testing.T) {
	var (
		set       Set
		authority = addr(0xaa)
	)
	for i := 1; i <= thor.MaxFunders; i++ {
		require.NoError(t, set.Add(authority, addr(byte(i))))
	}

	require.NoError(t, set.Remove(authority, addr(2)))
	assert.False(t, set.Contains(addr(2)))
	assert.ErrorIs(t, set.Remove(authority, addr(2)), ErrNotFound)

	require.NoError(t, set.Add(authority, addr(9)))
	assert.Equal(t, addr(9), set[1])
	assert.Equal(t, []thor.Address{addr(1), addr(9), addr(3), addr(4), addr(5)}, set.List())
}

func TestZeroAddress(t *testing.T) {
	var set Set
	assert.False(t, set.Contains(thor.Address{}))
	assert.Error(t, set.Add(addr(0xaa), thor.Address{}))
	assert.ErrorIs(t, set.Remove(addr(0xaa), thor.Address{}), ErrNotFound)
}

func TestRLP(t *testing.T) {
	var set Set
	require.NoError(t, set.Add(addr(0xaa), addr(1)))
	require.NoError(t, set.Add(addr(0xaa), addr(2)))
	require.NoError(t, set.Remove(addr(0xaa), addr(1)))

	enc, err := rlp.EncodeToBytes(&set)
	require.NoError(t, err)

	var dec Set
	require.NoError(t, rlp.DecodeBytes(enc, &dec))
	assert.Equal(t, set, dec)
}
