// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the fungible ledger used as collateral and reward currency.
package token

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

var (
	slotBalances   = seq.BytesToBytes32([]byte("token-balances"))
	slotAllowances = seq.BytesToBytes32([]byte("token-allowances"))
	slotSupply     = seq.BytesToBytes32([]byte("token-supply"))
)

// Token implements the balance ledger on state, so transfers revert together with the caller.
type Token struct {
	balances   *solidity.Mapping[seq.Address, *big.Int]
	allowances *solidity.Mapping[seq.Bytes32, *big.Int]
	supply     *solidity.Uint256
}

// New create a new instance.
func New(addr seq.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		balances:   solidity.NewMapping[seq.Address, *big.Int](sctx, slotBalances),
		allowances: solidity.NewMapping[seq.Bytes32, *big.Int](sctx, slotAllowances),
		supply:     solidity.NewUint256(sctx, slotSupply),
	}
}

func allowanceKey(owner, spender seq.Address) seq.Bytes32 {
	return seq.Blake2b(owner.Bytes(), spender.Bytes())
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr seq.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

// TotalSupply returns the minted amount.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

// Allowance returns what spender may still move out of owner.
func (t *Token) Allowance(owner, spender seq.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

// Approve sets the allowance of spender over owner's balance.
func (t *Token) Approve(owner, spender seq.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("negative allowance")
	}
	return t.allowances.Set(allowanceKey(owner, spender), amount)
}

// Mint credits new tokens to addr.
func (t *Token) Mint(to seq.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return reverts.New("mint amount must be positive")
	}
	if err := t.supply.Add(amount); err != nil {
		return err
	}
	return t.addBalance(to, amount)
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to seq.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("negative amount")
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	return t.addBalance(to, amount)
}

// TransferFrom moves amount out of from on behalf of spender, consuming its allowance.
func (t *Token) TransferFrom(spender, from, to seq.Address, amount *big.Int) error {
	if spender == from {
		return t.Transfer(from, to, amount)
	}
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return reverts.New("insufficient allowance")
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.allowances.Set(allowanceKey(from, spender), allowance.Sub(allowance, amount))
}

// Spender returns the view of the ledger as seen by a contract pulling funds with allowances.
func (t *Token) Spender(spender seq.Address) *Custody {
	return &Custody{token: t, spender: spender}
}

func (t *Token) addBalance(addr seq.Address, amount *big.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	return t.balances.Set(addr, bal.Add(bal, amount))
}

func (t *Token) subBalance(addr seq.Address, amount *big.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.New("insufficient balance")
	}
	return t.balances.Set(addr, bal.Sub(bal, amount))
}

// Custody is the ledger bound to one spender.
type Custody struct {
	token   *Token
	spender seq.Address
}

// TransferFrom pulls amount from payer into to.
func (c *Custody) TransferFrom(payer, to seq.Address, amount *big.Int) error {
	return c.token.TransferFrom(c.spender, payer, to, amount)
}

// Transfer moves the amount from one account to another.
func (c *Custody) Transfer(from, to seq.Address, amount *big.Int) error {
	return c.token.Transfer(from, to, amount)
}

// BalanceOf returns the balance of addr.
func (c *Custody) BalanceOf(addr seq.Address) (*big.Int, error) {
	return c.token.BalanceOf(addr)
}
