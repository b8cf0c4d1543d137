// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node hosts the engine over persistent storage and serializes every write.
package node

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/authority"
	"github.com/vechain/seqlock/builtin/certificate"
	"github.com/vechain/seqlock/builtin/locking"
	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/token"
	"github.com/vechain/seqlock/cache"
	"github.com/vechain/seqlock/eventdb"
	"github.com/vechain/seqlock/kv"
	"github.com/vechain/seqlock/log"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
	"github.com/vechain/seqlock/xenv"
)

var logger = log.WithContext("pkg", "node")

// Accounts of the in-process contracts.
var (
	TokenAddress       = seq.BytesToAddress([]byte("token"))
	CertificateAddress = seq.BytesToAddress([]byte("certificate"))
	AuthorityAddress   = seq.BytesToAddress([]byte("authority"))
	nodeAddress        = seq.BytesToAddress([]byte("node"))
)

// Contracts is the set of contracts bound to one state.
type Contracts struct {
	Engine       *locking.Locking
	Token        *token.Token
	Certificates *certificate.Registry
	Authority    *authority.Authority
	State        *state.State
}

// Node executes engine calls one at a time over a kv store.
type Node struct {
	db       kv.Store
	events   *eventdb.EventDB
	params   locking.Params
	verifier *batch.Verifier
	reads    *cache.LRU[uint64, *operator.Operator]
	clock    func() uint64

	mu sync.RWMutex
}

// New creates a node. The engine account is params.Address.
func New(db kv.Store, events *eventdb.EventDB, params locking.Params, readCacheSize int) (*Node, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	verifier, err := batch.NewVerifier(params.SignerCacheSize)
	if err != nil {
		return nil, err
	}
	reads, err := cache.NewLRU[uint64, *operator.Operator](readCacheSize)
	if err != nil {
		return nil, err
	}
	return &Node{
		db:       db,
		events:   events,
		params:   params,
		verifier: verifier,
		reads:    reads,
		clock:    func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// SetClock replaces the wall clock used as call time.
func (n *Node) SetClock(clock func() uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clock = clock
}

// Now is the call time the next Execute would see.
func (n *Node) Now() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.clock()
}

func (n *Node) Params() locking.Params {
	return n.params
}

func (n *Node) Events() *eventdb.EventDB {
	return n.events
}

func (n *Node) Verifier() *batch.Verifier {
	return n.verifier
}

func (n *Node) contracts(st *state.State) (*Contracts, error) {
	tok := token.New(TokenAddress, st)
	certs := certificate.New(CertificateAddress, st)
	auth := authority.New(AuthorityAddress, st)
	engine, err := locking.New(n.params, st, tok.Spender(n.params.Address), certs, auth, n.verifier)
	if err != nil {
		return nil, err
	}
	return &Contracts{Engine: engine, Token: tok, Certificates: certs, Authority: auth, State: st}, nil
}

// Execute runs fn as caller. Its writes and events are persisted only if it returns nil.
func (n *Node) Execute(caller seq.Address, fn func(c *Contracts, env *xenv.Environment) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := state.New(n.db)
	c, err := n.contracts(st)
	if err != nil {
		return err
	}
	if err := fn(c, xenv.New(caller, n.clock(), n.params.ChainID)); err != nil {
		return err
	}
	return n.commit(st, c.Engine.Drain())
}

// View runs fn over the latest committed state. Writes are discarded.
func (n *Node) View(fn func(c *Contracts) error) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c, err := n.contracts(state.New(n.db))
	if err != nil {
		return err
	}
	return fn(c)
}

// Operator returns the committed record of id, served from the read cache when possible.
func (n *Node) Operator(id uint64) (*operator.Operator, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.reads.GetOrLoad(id, func(id uint64) (*operator.Operator, error) {
		c, err := n.contracts(state.New(n.db))
		if err != nil {
			return nil, err
		}
		return c.Engine.Operator(id)
	})
}

// ReadCacheStats exposes the operator read cache counters.
func (n *Node) ReadCacheStats() *cache.Stats {
	return n.reads.Stats()
}

func (n *Node) commit(st *state.State, events []*locking.Event) error {
	stage := st.Stage()
	bat := n.db.NewBatch()
	if err := stage.Commit(bat); err != nil {
		return err
	}
	if err := bat.Write(); err != nil {
		return errors.Wrap(err, "write state")
	}
	n.reads.Purge()
	metricCommits().Add(1)
	if stats := n.reads.Stats(); stats.Changed() {
		hit, miss := stats.Counts()
		metricReads().SetWithLabel(hit, map[string]string{"result": "hit"})
		metricReads().SetWithLabel(miss, map[string]string{"result": "miss"})
	}

	if len(events) > 0 {
		if err := n.events.Insert(events); err != nil {
			// state is already durable
			logger.Warn("failed to record events", "count", len(events), "error", err)
		}
	}
	logger.Debug("committed", "changes", stage.Len(), "events", len(events), "digest", stage.Hash())
	return nil
}
