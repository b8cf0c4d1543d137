// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/cache"
	"github.com/vechain/seqlock/node"
	"github.com/vechain/seqlock/seq"
)

type CacheStats struct {
	Hit     int64   `json:"hit"`
	Miss    int64   `json:"miss"`
	HitRate float64 `json:"hitRate"`
}

func convertStats(s *cache.Stats) CacheStats {
	hit, miss := s.Counts()
	return CacheStats{hit, miss, s.HitRate()}
}

type Info struct {
	Version          string                `json:"version"`
	ChainID          uint64                `json:"chainId"`
	Engine           seq.Address           `json:"engine"`
	Epoch            uint64                `json:"epoch"`
	MinLock          *math.HexOrDecimal256 `json:"minLock"`
	MaxLock          *math.HexOrDecimal256 `json:"maxLock"`
	MaxOperators     uint64                `json:"maxOperators"`
	WithdrawalDelay  uint64                `json:"withdrawalDelay"`
	MaxCommissionBps uint32                `json:"maxCommissionBps"`
	Policy           string                `json:"policy"`
	Cutoff           string                `json:"cutoff"`
	SignerCache      CacheStats            `json:"signerCache"`
	ReadCache        CacheStats            `json:"readCache"`
}

type Node struct {
	node    *node.Node
	version string
}

func New(n *node.Node, version string) *Node {
	return &Node{
		n,
		version,
	}
}

func (n *Node) handleGetInfo(w http.ResponseWriter, req *http.Request) error {
	params := n.node.Params()
	info := &Info{
		Version:          n.version,
		ChainID:          params.ChainID,
		Engine:           params.Address,
		MinLock:          (*math.HexOrDecimal256)(params.MinLock),
		MaxLock:          (*math.HexOrDecimal256)(params.MaxLock),
		MaxOperators:     params.MaxOperators,
		WithdrawalDelay:  params.WithdrawalDelay,
		MaxCommissionBps: params.MaxCommissionBps,
		Policy:           params.Policy.String(),
		Cutoff:           params.Cutoff.String(),
		SignerCache:      convertStats(n.node.Verifier().Stats()),
		ReadCache:        convertStats(n.node.ReadCacheStats()),
	}
	err := n.node.View(func(c *node.Contracts) (err error) {
		info.Epoch, err = c.Engine.Epoch()
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /node").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetInfo))
}
