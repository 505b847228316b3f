// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/staking/funders"
	"github.com/vechain/rewardpool/staking/internal/vault"
	"github.com/vechain/rewardpool/staking/reward"
)

// Error kinds of staking operations. Match with errors.Is.
var (
	ErrDurationTooShort    = errors.New("reward duration too short")
	ErrPoolPaused          = errors.New("pool paused")
	ErrPoolNotPaused       = errors.New("pool not paused")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrMaturityNotReached  = errors.New("maturity not reached")
	ErrInsufficientBalance = errors.New("insufficient staked balance")
	ErrEpochNotElapsed     = errors.New("reward epoch not elapsed")
	ErrUnauthorized        = errors.New("unauthorized")

	ErrArithmeticOverflow  = reward.ErrOverflow
	ErrArithmeticUnderflow = reward.ErrUnderflow
	ErrDivisionByZero      = reward.ErrDivisionByZero

	ErrFunderAlreadyAuthorized           = funders.ErrAlreadyAuthorized
	ErrFunderCapacityExceeded            = funders.ErrCapacityExceeded
	ErrFunderNotFound                    = funders.ErrNotFound
	ErrCannotModifyPoolAuthorityAsFunder = funders.ErrAuthority

	ErrTransferFailed            = vault.ErrTransferFailed
	ErrStorageConstraintViolated = errors.New("storage constraint violated")

	ErrPoolNotFound = errors.New("pool not found")
	ErrUserNotFound = errors.New("user not found")
	ErrPoolExists   = errors.New("pool already exists")
	ErrUserExists   = errors.New("user already exists")
)
