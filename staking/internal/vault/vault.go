// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

var (
	ErrTransferFailed = errors.New("transfer failed")
	ErrAccountExists  = errors.New("token account already exists")
	ErrAccountMissing = errors.New("token account not found")
)

var accountsBucket = kv.Bucket("vault/")

// Account is the balance of one asset held at an address.
// A custodial account is debited only with a Custody capability.
type Account struct {
	Owner     thor.Address
	Balance   uint64
	Custodial bool
}

func (a *Account) authorized(auth Authorizer) bool {
	return a.Owner == auth.Identity() && a.Custodial == auth.custodial()
}

// Transfer is an executed movement of assets.
// A zero From is a mint.
type Transfer struct {
	Asset  thor.Address
	From   thor.Address
	To     thor.Address
	Amount uint64
}

type accountKey struct {
	asset thor.Address
	addr  thor.Address
}

func (k accountKey) Bytes() []byte {
	return append(k.asset.Bytes(), k.addr.Bytes()...)
}

// Vault executes transfers between token accounts kept in the state.
type Vault struct {
	accounts  *state.Mapping[accountKey, *Account]
	transfers []Transfer
}

// New creates a vault over the state.
func New(st *state.State) *Vault {
	return &Vault{
		accounts: state.NewMapping[accountKey, *Account](st, accountsBucket),
	}
}

// Account returns the token account of addr for asset.
func (v *Vault) Account(asset, addr thor.Address) (*Account, bool, error) {
	return v.accounts.Get(accountKey{asset, addr})
}

// Balance returns the balance of addr for asset, zero if the account does not exist.
func (v *Vault) Balance(asset, addr thor.Address) (uint64, error) {
	acc, exist, err := v.Account(asset, addr)
	if err != nil || !exist {
		return 0, err
	}
	return acc.Balance, nil
}

// Open creates an empty custodial token account at addr.
func (v *Vault) Open(asset, addr thor.Address, custody Custody) error {
	_, exist, err := v.Account(asset, addr)
	if err != nil {
		return err
	}
	if exist {
		return errors.WithMessagef(ErrAccountExists, "asset %v account %v", asset, addr)
	}
	return v.accounts.Set(accountKey{asset, addr}, &Account{Owner: custody.Identity(), Custodial: true})
}

// Close destroys an empty token account. auth must be the account owner.
func (v *Vault) Close(asset, addr thor.Address, auth Authorizer) error {
	acc, exist, err := v.Account(asset, addr)
	if err != nil {
		return err
	}
	if !exist {
		return errors.WithMessagef(ErrAccountMissing, "asset %v account %v", asset, addr)
	}
	if !acc.authorized(auth) {
		return errors.WithMessage(ErrTransferFailed, "close not authorized by account owner")
	}
	if acc.Balance != 0 {
		return errors.WithMessage(ErrTransferFailed, "close non-empty account")
	}
	v.accounts.Delete(accountKey{asset, addr})
	return nil
}

// Transfer moves amount of asset from one account to another.
// A missing destination account is created, owned by its own address.
func (v *Vault) Transfer(asset, from, to thor.Address, amount uint64, auth Authorizer) error {
	src, exist, err := v.Account(asset, from)
	if err != nil {
		return err
	}
	if !exist {
		return errors.WithMessagef(ErrTransferFailed, "no %v account at %v", asset, from)
	}
	if !src.authorized(auth) {
		return errors.WithMessagef(ErrTransferFailed, "debit of %v not authorized by account owner", from)
	}
	if src.Balance < amount {
		return errors.WithMessagef(ErrTransferFailed, "insufficient funds: have %d, want %d", src.Balance, amount)
	}
	if from == to {
		v.transfers = append(v.transfers, Transfer{asset, from, to, amount})
		return nil
	}

	src.Balance -= amount
	if err := v.credit(asset, to, amount); err != nil {
		return err
	}
	if err := v.accounts.Set(accountKey{asset, from}, src); err != nil {
		return err
	}
	v.transfers = append(v.transfers, Transfer{asset, from, to, amount})
	return nil
}

// Mint credits amount of asset to addr out of thin air.
func (v *Vault) Mint(asset, to thor.Address, amount uint64) error {
	if err := v.credit(asset, to, amount); err != nil {
		return err
	}
	v.transfers = append(v.transfers, Transfer{Asset: asset, To: to, Amount: amount})
	return nil
}

func (v *Vault) credit(asset, to thor.Address, amount uint64) error {
	dst, exist, err := v.Account(asset, to)
	if err != nil {
		return err
	}
	if !exist {
		dst = &Account{Owner: to}
	}
	sum, carry := bits.Add64(dst.Balance, amount, 0)
	if carry != 0 {
		return errors.WithMessagef(ErrTransferFailed, "balance of %v overflows", to)
	}
	dst.Balance = sum
	return v.accounts.Set(accountKey{asset, to}, dst)
}

// Transfers returns the transfers executed so far.
func (v *Vault) Transfers() []Transfer {
	return v.transfers
}
