// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/authority"
	"github.com/vechain/seqlock/builtin/certificate"
	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/token"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
	"github.com/vechain/seqlock/xenv"
)

const (
	chainID     = uint64(7)
	rate        = int64(5)
	startFunds  = int64(100_000)
	payerFunds  = int64(1_000_000)
	claimDelay  = uint64(100)
	windowWidth = uint64(10)
)

var (
	engineAddr = seq.BytesToAddress([]byte("locking"))
	tokenAddr  = seq.BytesToAddress([]byte("token"))
	certAddr   = seq.BytesToAddress([]byte("certificate"))
	authAddr   = seq.BytesToAddress([]byte("authority"))
	owner      = seq.BytesToAddress([]byte("owner"))
	payer      = seq.BytesToAddress([]byte("payer"))
)

type account struct {
	key  *ecdsa.PrivateKey
	addr seq.Address
	pub  []byte
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, seq.Address, []byte) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, seq.Address(crypto.PubkeyToAddress(key.PublicKey)), crypto.FromECDSAPub(&key.PublicKey)
}

type harness struct {
	t         *testing.T
	st        *state.State
	token     *token.Token
	certs     *certificate.Registry
	auth      *authority.Authority
	engine    *Locking
	submitter *ecdsa.PrivateKey
	now       uint64
	window    uint64
}

func newHarness(t *testing.T, mutate func(*Params)) *harness {
	st := state.New(nil)
	params := DefaultParams(engineAddr, chainID)
	params.MinLock = big.NewInt(100)
	params.MaxLock = big.NewInt(10_000)
	params.MaxOperators = 10
	params.WithdrawalDelay = claimDelay
	if mutate != nil {
		mutate(&params)
	}

	h := &harness{
		t:     t,
		st:    st,
		token: token.New(tokenAddr, st),
		certs: certificate.New(certAddr, st),
		auth:  authority.New(authAddr, st),
		now:   1_000,
	}
	require.NoError(t, h.auth.SetOwner(seq.Address{}, owner))

	engine, err := New(params, st, h.token.Spender(engineAddr), h.certs, h.auth, nil)
	require.NoError(t, err)
	h.engine = engine

	key, submitter, _ := newKey(t)
	h.submitter = key
	require.NoError(t, engine.SetTrustedSubmitter(h.env(owner), submitter))
	require.NoError(t, engine.SetRewardRate(h.env(owner), big.NewInt(rate)))

	require.NoError(t, h.token.Mint(payer, big.NewInt(payerFunds)))
	require.NoError(t, h.token.Approve(payer, engineAddr, big.NewInt(payerFunds)))
	engine.Drain()
	return h
}

func (h *harness) env(caller seq.Address) *xenv.Environment {
	return xenv.New(caller, h.now, chainID)
}

// newAccount returns an allow-listed, funded account that approved the engine.
func (h *harness) newAccount() *account {
	key, addr, pub := newKey(h.t)
	require.NoError(h.t, h.auth.Allow(owner, addr))
	require.NoError(h.t, h.token.Mint(addr, big.NewInt(startFunds)))
	require.NoError(h.t, h.token.Approve(addr, engineAddr, big.NewInt(startFunds)))
	return &account{key: key, addr: addr, pub: pub}
}

func (h *harness) join(a *account, amount int64) uint64 {
	id, err := h.engine.Join(h.env(a.addr), a.addr, big.NewInt(amount), a.pub)
	require.NoError(h.t, err)
	return id
}

func (h *harness) joinN(n int, amount int64) ([]*account, []uint64) {
	accounts := make([]*account, n)
	ids := make([]uint64, n)
	for i := range accounts {
		accounts[i] = h.newAccount()
		ids[i] = h.join(accounts[i], amount)
	}
	return accounts, ids
}

func (h *harness) batch(signers []seq.Address, units []int64) *batch.Submission {
	epoch, err := h.engine.Epoch()
	require.NoError(h.t, err)
	s := &batch.Submission{
		Epoch:       epoch + 1,
		WindowStart: h.window,
		WindowEnd:   h.window + windowWidth,
		Payer:       payer,
		Signers:     signers,
	}
	for _, u := range units {
		s.Units = append(s.Units, big.NewInt(u))
	}
	require.NoError(h.t, batch.Sign(s, chainID, engineAddr, h.submitter))
	return s
}

func (h *harness) submit(signers []seq.Address, units []int64) uint64 {
	s := h.batch(signers, units)
	epoch, err := h.engine.SubmitBatch(h.env(payer), s)
	require.NoError(h.t, err)
	h.window = s.WindowEnd
	return epoch
}

func (h *harness) balance(addr seq.Address) int64 {
	b, err := h.token.BalanceOf(addr)
	require.NoError(h.t, err)
	return b.Int64()
}

func (h *harness) totals() (int64, uint64) {
	totals, err := h.engine.Totals()
	require.NoError(h.t, err)
	return totals.Amount.Int64(), totals.Count
}

func (h *harness) pending(id uint64) (int64, int64) {
	split, err := h.engine.PendingReward(id)
	require.NoError(h.t, err)
	return split.Operator.Int64(), split.Delegators.Int64()
}

func (h *harness) liquidated() int64 {
	v, err := h.engine.TotalRewardsLiquidated()
	require.NoError(h.t, err)
	return v.Int64()
}

func (h *harness) collateral() int64 {
	v, err := h.engine.LockedCollateral()
	require.NoError(h.t, err)
	return v.Int64()
}
