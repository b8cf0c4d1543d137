// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb is the goleveldb backed state store.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/seqlock/kv"
	"github.com/vechain/seqlock/metrics"
)

// SchemaVersion tags the key layout written by this build.
const SchemaVersion = "seqlock/1"

var (
	_ kv.StoreCloser = (*LevelDB)(nil)

	metaBucket = kv.Bucket("m")
	schemaKey  = []byte("schema")

	// ErrSchemaMismatch is returned when opening a store written with another key layout.
	ErrSchemaMismatch = errors.New("lvldb: schema mismatch")

	metricBatchOps = metrics.LazyLoadHistogram("lvldb_batch_ops", metrics.BucketBatchEntries)

	readOpt  = opt.ReadOptions{}
	writeOpt = opt.WriteOptions{}
	// batches are committed engine calls and must survive a crash
	syncOpt = opt.WriteOptions{Sync: true}
)

// Options tunes a persistent store. Sizes are in MiB.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, 16)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, 16),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a kv.Store over goleveldb.
type LevelDB struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New opens the store at path, creating it when absent.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %v", path)
	}
	return open(stg, opts)
}

// NewMem creates a store that lives in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	ldb := &LevelDB{db: db, stg: stg}
	if err := ldb.checkSchema(); err != nil {
		ldb.Close()
		return nil, err
	}
	return ldb, nil
}

// checkSchema stamps a fresh store and refuses one from another layout.
func (ldb *LevelDB) checkSchema() error {
	key := metaBucket.Key(schemaKey)
	v, err := ldb.db.Get(key, &readOpt)
	if ldb.IsNotFound(err) {
		return ldb.db.Put(key, []byte(SchemaVersion), &syncOpt)
	}
	if err != nil {
		return errors.Wrap(err, "read schema")
	}
	if string(v) != SchemaVersion {
		return errors.Wrapf(ErrSchemaMismatch, "found %q, want %q", v, SchemaVersion)
	}
	return nil
}

// IsNotFound reports whether err is the missing key error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Close releases the store and its file lock. Later calls fail.
func (ldb *LevelDB) Close() error {
	err := ldb.db.Close()
	if serr := ldb.stg.Close(); err == nil {
		err = serr
	}
	return err
}

// NewBatch starts an atomic, fsynced write.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{db: ldb.db, b: new(leveldb.Batch)}
}

func (ldb *LevelDB) NewIterator(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error {
	metricBatchOps().Observe(int64(b.b.Len()))
	return b.db.Write(b.b, &syncOpt)
}
