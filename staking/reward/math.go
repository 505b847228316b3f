// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrUnderflow      = errors.New("arithmetic underflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// Precision scales the reward per token accumulator.
var Precision = uint256.NewInt(math.MaxUint64)

// Every intermediate value is an unsigned 128-bit integer, carried in a uint256.
const wordBits = 128

func u128(x *uint256.Int) (*uint256.Int, error) {
	if x.BitLen() > wordBits {
		return nil, ErrOverflow
	}
	return x, nil
}

func add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return u128(z)
}

func sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

func mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return u128(z)
}

func div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

// toUint64 narrows x, failing if it does not fit.
func toUint64(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, ErrOverflow
	}
	return x.Uint64(), nil
}
