// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "github.com/vechain/rewardpool/thor"

// Authorizer proves the right to debit a token account.
type Authorizer interface {
	// Identity is the identity the account owner must match.
	Identity() thor.Address
	custodial() bool
}

// SignedBy is the authorization of an end user whose signature was verified upstream.
type SignedBy thor.Address

// Identity implements Authorizer.
func (s SignedBy) Identity() thor.Address {
	return thor.Address(s)
}

func (SignedBy) custodial() bool { return false }

// Custody is the capability to move assets out of the vaults of one pool.
// It holds no key material, only the derived custodial identity the vaults are owned by.
type Custody struct {
	pool   thor.Address
	signer thor.Address
}

// IssueCustody issues the custody capability of the pool with the given nonce.
func IssueCustody(pool thor.Address, nonce uint8) Custody {
	return Custody{
		pool:   pool,
		signer: thor.PoolSigner(pool, nonce),
	}
}

// Pool returns the pool the capability is scoped to.
func (c Custody) Pool() thor.Address {
	return c.pool
}

// Identity implements Authorizer.
func (c Custody) Identity() thor.Address {
	return c.signer
}

func (Custody) custodial() bool { return true }
