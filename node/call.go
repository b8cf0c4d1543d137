// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/json"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/xenv"
)

var slotNonces = seq.BytesToBytes32([]byte("node-nonces"))

// Call methods.
const (
	MethodJoin                  = "join"
	MethodRelock                = "relock"
	MethodUnlock                = "unlock"
	MethodForceUnlock           = "forceUnlock"
	MethodUnlockClaim           = "unlockClaim"
	MethodWithdrawRewards       = "withdrawRewards"
	MethodUpdateSigner          = "updateSigner"
	MethodSetCommission         = "setCommission"
	MethodTransferOperator      = "transferOperator"
	MethodSetDelegationPool     = "setDelegationPool"
	MethodUpdateDelegation      = "updateDelegation"
	MethodClaimDelegatorRewards = "claimDelegatorRewards"
	MethodSetTrustedSubmitter   = "setTrustedSubmitter"
	MethodSetRewardRate         = "setRewardRate"
	MethodApprove               = "approve"
	MethodTransfer              = "transfer"
	MethodAllow                 = "allow"
	MethodRevoke                = "revoke"
)

// ErrBadCallSignature is returned when the caller of a signed call cannot be recovered.
var ErrBadCallSignature = errors.New("node: bad call signature")

// Args is the union of all call arguments. Each method reads the fields it needs.
type Args struct {
	ID          uint64                `json:"id,omitempty"`
	Amount      *math.HexOrDecimal256 `json:"amount,omitempty"`
	PubKey      hexutil.Bytes         `json:"pubkey,omitempty"`
	To          *seq.Address          `json:"to,omitempty"`
	Bps         uint32                `json:"bps,omitempty"`
	LockRewards bool                  `json:"lockRewards,omitempty"`
}

func (a *Args) amount() *big.Int {
	if a.Amount == nil {
		return new(big.Int)
	}
	return (*big.Int)(a.Amount)
}

func (a *Args) to() (seq.Address, error) {
	if a.To == nil {
		return seq.Address{}, reverts.New("missing target address")
	}
	return *a.To, nil
}

// Call is an engine invocation. Args holds the JSON encoded Args.
type Call struct {
	Method string
	Nonce  uint64
	Args   []byte
}

// SigningHash binds the call to the engine account and chain.
func (c *Call) SigningHash(engine seq.Address, chainID uint64) (hash seq.Bytes32, err error) {
	hash = seq.Blake2bFn(func(w io.Writer) {
		if err = rlp.Encode(w, c); err != nil {
			return
		}
		w.Write(engine.Bytes())
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], chainID)
		w.Write(b[:])
	})
	return
}

// SignedCall is a Call with the secp256k1 signature of its caller.
type SignedCall struct {
	Call
	Signature []byte
}

// Receipt is the outcome of an accepted call.
type Receipt struct {
	Caller seq.Address `json:"caller"`
	Nonce  uint64      `json:"nonce"`
	Result any         `json:"result,omitempty"`
}

// NewCall encodes args into a call.
func NewCall(method string, nonce uint64, args *Args) (*Call, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return &Call{Method: method, Nonce: nonce, Args: data}, nil
}

// SignCall signs c with key.
func SignCall(c *Call, engine seq.Address, chainID uint64, key *ecdsa.PrivateKey) (*SignedCall, error) {
	hash, err := c.SigningHash(engine, chainID)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, err
	}
	return &SignedCall{Call: *c, Signature: sig}, nil
}

func nonceOf(c *Contracts, caller seq.Address) *solidity.Uint64 {
	return solidity.NewUint64(solidity.NewContext(nodeAddress, c.State), seq.Blake2b(slotNonces.Bytes(), caller.Bytes()))
}

// Nonce returns the nonce the next call of caller must carry.
func (n *Node) Nonce(caller seq.Address) (nonce uint64, err error) {
	err = n.View(func(c *Contracts) error {
		nonce, err = nonceOf(c, caller).Get()
		return err
	})
	return
}

// Apply authenticates sc and executes it as its signer.
func (n *Node) Apply(sc *SignedCall) (*Receipt, error) {
	hash, err := sc.SigningHash(n.params.Address, n.params.ChainID)
	if err != nil {
		return nil, err
	}
	caller, err := n.verifier.Recover(hash, sc.Signature)
	if err != nil {
		return nil, errors.Wrap(ErrBadCallSignature, err.Error())
	}
	var args Args
	if len(sc.Args) > 0 {
		if err := json.Unmarshal(sc.Args, &args); err != nil {
			return nil, reverts.Newf("malformed args: %v", err)
		}
	}

	receipt := &Receipt{Caller: caller, Nonce: sc.Nonce}
	err = n.Execute(caller, func(c *Contracts, env *xenv.Environment) error {
		nonce := nonceOf(c, caller)
		expected, err := nonce.Get()
		if err != nil {
			return err
		}
		if sc.Nonce != expected {
			return reverts.Newf("nonce %d, expected %d", sc.Nonce, expected)
		}
		if receipt.Result, err = dispatch(c, env, sc.Method, &args); err != nil {
			return err
		}
		_, err = nonce.Increment(1)
		return err
	})

	result := "ok"
	if err != nil {
		result = "reverted"
		if !reverts.IsRevertErr(err) {
			result = "failed"
		}
	}
	metricCalls().AddWithLabel(1, map[string]string{"method": sc.Method, "result": result})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// SubmitBatch executes a batch on behalf of its payer.
func (n *Node) SubmitBatch(s *batch.Submission) (epoch uint64, err error) {
	err = n.Execute(s.Payer, func(c *Contracts, env *xenv.Environment) error {
		epoch, err = c.Engine.SubmitBatch(env, s)
		return err
	})
	return
}

func dispatch(c *Contracts, env *xenv.Environment, method string, args *Args) (any, error) {
	engine := c.Engine
	switch method {
	case MethodJoin:
		return engine.Join(env, env.Caller(), args.amount(), args.PubKey)
	case MethodRelock:
		return nil, engine.Relock(env, args.ID, args.amount(), args.LockRewards)
	case MethodUnlock:
		return nil, engine.Unlock(env, args.ID)
	case MethodForceUnlock:
		return nil, engine.ForceUnlock(env, args.ID)
	case MethodUnlockClaim:
		return nil, engine.UnlockClaim(env, args.ID)
	case MethodWithdrawRewards:
		return amountResult(engine.WithdrawRewards(env, args.ID))
	case MethodUpdateSigner:
		return nil, engine.UpdateSigner(env, args.ID, args.PubKey)
	case MethodSetCommission:
		return nil, engine.SetCommission(env, args.ID, args.Bps)
	case MethodTransferOperator:
		to, err := args.to()
		if err != nil {
			return nil, err
		}
		return nil, engine.TransferOperator(env, args.ID, to)
	case MethodSetDelegationPool:
		to, err := args.to()
		if err != nil {
			return nil, err
		}
		return nil, engine.SetDelegationPool(env, args.ID, to)
	case MethodUpdateDelegation:
		return nil, engine.UpdateDelegation(env, args.ID, args.amount())
	case MethodClaimDelegatorRewards:
		return amountResult(engine.ClaimDelegatorRewards(env, args.ID))
	case MethodSetTrustedSubmitter:
		to, err := args.to()
		if err != nil {
			return nil, err
		}
		return nil, engine.SetTrustedSubmitter(env, to)
	case MethodSetRewardRate:
		return nil, engine.SetRewardRate(env, args.amount())
	case MethodApprove:
		return nil, c.Token.Approve(env.Caller(), engine.Params().Address, args.amount())
	case MethodTransfer:
		to, err := args.to()
		if err != nil {
			return nil, err
		}
		return nil, c.Token.Transfer(env.Caller(), to, args.amount())
	case MethodAllow:
		to, err := args.to()
		if err != nil {
			return nil, err
		}
		return nil, c.Authority.Allow(env.Caller(), to)
	case MethodRevoke:
		to, err := args.to()
		if err != nil {
			return nil, err
		}
		return nil, c.Authority.Revoke(env.Caller(), to)
	default:
		return nil, reverts.Newf("unknown method %q", method)
	}
}

func amountResult(v *big.Int, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return (*math.HexOrDecimal256)(v), nil
}
