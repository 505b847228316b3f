// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Derived addresses are the trailing 20 bytes of a domain separated blake2b digest.

var (
	poolDomain   = []byte("rewardpool/pool")
	signerDomain = []byte("rewardpool/signer")
	vaultDomain  = []byte("rewardpool/vault")
)

// CreatePoolAddress derives the identifier of the pool created by authority with the given nonce.
func CreatePoolAddress(authority Address, nonce uint8) Address {
	h := Blake2b(poolDomain, authority.Bytes(), []byte{nonce})
	return BytesToAddress(h[12:])
}

// PoolSigner derives the custodial identity that owns the vaults of a pool.
func PoolSigner(pool Address, nonce uint8) Address {
	h := Blake2b(signerDomain, pool.Bytes(), []byte{nonce})
	return BytesToAddress(h[12:])
}

// VaultAddress derives the address of a pool vault, label distinguishes the staking and reward vault.
func VaultAddress(pool Address, label string) Address {
	h := Blake2b(vaultDomain, pool.Bytes(), []byte(label))
	return BytesToAddress(h[12:])
}
