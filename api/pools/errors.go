// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/auth"
	"github.com/vechain/rewardpool/staking"
)

// convertError maps engine and auth errors to http errors.
func convertError(err error) error {
	switch {
	case errors.Is(err, staking.ErrPoolNotFound),
		errors.Is(err, staking.ErrUserNotFound):
		return utils.NotFound(err)
	case errors.Is(err, staking.ErrUnauthorized),
		errors.Is(err, staking.ErrCannotModifyPoolAuthorityAsFunder),
		errors.Is(err, auth.ErrInvalidSignature),
		errors.Is(err, auth.ErrExpired),
		errors.Is(err, auth.ErrReplayed):
		return utils.Forbidden(err)
	case errors.Is(err, staking.ErrZeroAmount),
		errors.Is(err, staking.ErrDurationTooShort):
		return utils.BadRequest(err)
	case errors.Is(err, staking.ErrPoolPaused),
		errors.Is(err, staking.ErrPoolNotPaused),
		errors.Is(err, staking.ErrMaturityNotReached),
		errors.Is(err, staking.ErrInsufficientBalance),
		errors.Is(err, staking.ErrEpochNotElapsed),
		errors.Is(err, staking.ErrArithmeticOverflow),
		errors.Is(err, staking.ErrArithmeticUnderflow),
		errors.Is(err, staking.ErrDivisionByZero),
		errors.Is(err, staking.ErrFunderAlreadyAuthorized),
		errors.Is(err, staking.ErrFunderCapacityExceeded),
		errors.Is(err, staking.ErrFunderNotFound),
		errors.Is(err, staking.ErrTransferFailed),
		errors.Is(err, staking.ErrStorageConstraintViolated),
		errors.Is(err, staking.ErrPoolExists),
		errors.Is(err, staking.ErrUserExists):
		return utils.Conflict(err)
	case errors.Is(err, auth.ErrBusy):
		return utils.HTTPError(err, http.StatusServiceUnavailable)
	}
	return err
}
