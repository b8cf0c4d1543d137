// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides the journaled contract storage the engine runs on.
//
// Reads fall through to the backing kv store, writes are kept in a stack of
// revisions until staged and committed into a batch.
package state
