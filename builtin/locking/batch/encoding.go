// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batch

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/seq"
)

var payloadArgs abi.Arguments

func init() {
	mustType := func(s string) abi.Type {
		t, err := abi.NewType(s, "", nil)
		if err != nil {
			panic(err)
		}
		return t
	}
	for _, typ := range []string{"uint256", "uint256", "uint256", "address", "address[]", "uint256[]", "uint256", "address"} {
		payloadArgs = append(payloadArgs, abi.Argument{Type: mustType(typ)})
	}
}

// Payload returns the canonical ABI encoding of s bound to chainID and the engine address.
func (s *Submission) Payload(chainID uint64, engine seq.Address) ([]byte, error) {
	signers := make([]common.Address, len(s.Signers))
	for i, a := range s.Signers {
		signers[i] = common.Address(a)
	}
	units := make([]*big.Int, len(s.Units))
	for i, u := range s.Units {
		if u == nil {
			u = new(big.Int)
		}
		units[i] = u
	}
	data, err := payloadArgs.Pack(
		new(big.Int).SetUint64(s.Epoch),
		new(big.Int).SetUint64(s.WindowStart),
		new(big.Int).SetUint64(s.WindowEnd),
		common.Address(s.Payer),
		signers,
		units,
		new(big.Int).SetUint64(chainID),
		common.Address(engine),
	)
	if err != nil {
		return nil, errors.Wrap(err, "pack batch payload")
	}
	return data, nil
}

// SigningHash returns keccak256 of the payload.
func (s *Submission) SigningHash(chainID uint64, engine seq.Address) (seq.Bytes32, error) {
	data, err := s.Payload(chainID, engine)
	if err != nil {
		return seq.Bytes32{}, err
	}
	return seq.Keccak256(data), nil
}
