// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/staking"
	"github.com/vechain/rewardpool/thor"
)

type operation struct {
	name string
	// args allocates the decoded arguments, nil if the operation takes none.
	args func() any
	run  func(caller, pool thor.Address, args any) (utils.M, error)
}

func (p *Pools) ops() []*operation {
	e := p.engine
	return []*operation{
		{
			name: "create_user",
			run: func(caller, pool thor.Address, _ any) (utils.M, error) {
				return nil, e.CreateUser(caller, pool)
			},
		},
		{
			name: "close_user",
			run: func(caller, pool thor.Address, _ any) (utils.M, error) {
				return nil, e.CloseUser(caller, pool)
			},
		},
		{
			name: "pause",
			run: func(caller, pool thor.Address, _ any) (utils.M, error) {
				return nil, e.Pause(caller, pool)
			},
		},
		{
			name: "unpause",
			run: func(caller, pool thor.Address, _ any) (utils.M, error) {
				return nil, e.Unpause(caller, pool)
			},
		},
		{
			name: "stake",
			args: func() any { return &AmountArgs{} },
			run: func(caller, pool thor.Address, args any) (utils.M, error) {
				return nil, e.Stake(caller, pool, args.(*AmountArgs).Amount)
			},
		},
		{
			name: "unstake",
			args: func() any { return &AmountArgs{} },
			run: func(caller, pool thor.Address, args any) (utils.M, error) {
				return nil, e.Unstake(caller, pool, args.(*AmountArgs).Amount)
			},
		},
		{
			name: "fund",
			args: func() any { return &AmountArgs{} },
			run: func(caller, pool thor.Address, args any) (utils.M, error) {
				return nil, e.Fund(caller, pool, args.(*AmountArgs).Amount)
			},
		},
		{
			name: "claim",
			run: func(caller, pool thor.Address, _ any) (utils.M, error) {
				paid, err := e.Claim(caller, pool)
				if err != nil {
					return nil, err
				}
				return utils.M{"paid": paid}, nil
			},
		},
		{
			name: "authorize_funder",
			args: func() any { return &FunderArgs{} },
			run: func(caller, pool thor.Address, args any) (utils.M, error) {
				return nil, e.AuthorizeFunder(caller, pool, args.(*FunderArgs).Funder)
			},
		},
		{
			name: "deauthorize_funder",
			args: func() any { return &FunderArgs{} },
			run: func(caller, pool thor.Address, args any) (utils.M, error) {
				return nil, e.DeauthorizeFunder(caller, pool, args.(*FunderArgs).Funder)
			},
		},
		{
			name: "close_pool",
			args: func() any { return &CloseArgs{} },
			run: func(caller, pool thor.Address, args any) (utils.M, error) {
				a := args.(*CloseArgs)
				return nil, e.ClosePool(caller, pool, &staking.CloseArgs{
					StakingRefundee: a.StakingRefundee,
					RewardRefundee:  a.RewardRefundee,
				})
			},
		},
	}
}
