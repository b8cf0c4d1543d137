// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb keeps a queryable history of engine events in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/locking"
	"github.com/vechain/seqlock/seq"
)

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends events in a single transaction.
func (db *EventDB) Insert(events []*locking.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO event(time, epoch, name, operator, signer, amount, total, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		var data []byte
		if len(ev.Fields) > 0 {
			if data, err = json.Marshal(ev.Fields); err != nil {
				tx.Rollback()
				return errors.Wrap(err, "encode fields")
			}
		}
		if _, err := stmt.Exec(
			ev.Time,
			ev.Epoch,
			ev.Name,
			ev.OperatorID,
			ev.Signer.Bytes(),
			bigValue(ev.Amount),
			bigValue(ev.Total),
			data,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter returns the events matching filter, ordered by insertion.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		condition := "epoch"
		if filter.Range.Unit == Time {
			condition = "time"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ? "
		}
	}
	if filter.OperatorID != 0 {
		args = append(args, filter.OperatorID)
		stmt += " AND operator = ? "
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Names)), ",") + ") "
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			seqNo    uint64
			ev       locking.Event
			signer   []byte
			amount   sql.NullString
			total    sql.NullString
			data     []byte
			operator uint64
		)
		if err := rows.Scan(
			&seqNo,
			&ev.Time,
			&ev.Epoch,
			&ev.Name,
			&operator,
			&signer,
			&amount,
			&total,
			&data,
		); err != nil {
			return nil, err
		}
		ev.OperatorID = operator
		ev.Signer = seq.BytesToAddress(signer)
		if ev.Amount, err = parseBig(amount); err != nil {
			return nil, err
		}
		if ev.Total, err = parseBig(total); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &ev.Fields); err != nil {
				return nil, errors.Wrap(err, "decode fields")
			}
		}
		records = append(records, &Record{Seq: seqNo, Event: &ev})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func bigValue(v *big.Int) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func parseBig(s sql.NullString) (*big.Int, error) {
	if !s.Valid {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s.String, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s.String)
	}
	return v, nil
}
