// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	epoch INTEGER NOT NULL,
	name TEXT NOT NULL,
	operator INTEGER NOT NULL,
	signer BLOB(20),
	amount TEXT,
	total TEXT,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(name);
CREATE INDEX IF NOT EXISTS event_i1 ON event(operator);
CREATE INDEX IF NOT EXISTS event_i2 ON event(epoch);
`
