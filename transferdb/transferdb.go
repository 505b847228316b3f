// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferdb

import (
	"context"
	"database/sql"
	"strconv"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/thor"
)

const transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL,
	pool BLOB(20) NOT NULL,
	asset BLOB(20) NOT NULL,
	fromAddress BLOB(20) NOT NULL,
	toAddress BLOB(20) NOT NULL,
	amount TEXT NOT NULL,
	time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS transfer_pool ON transfer(pool, seq);
CREATE INDEX IF NOT EXISTS transfer_from ON transfer(fromAddress, seq);
CREATE INDEX IF NOT EXISTS transfer_to ON transfer(toAddress, seq);`

const selectColumns = "SELECT seq, op, pool, asset, fromAddress, toAddress, amount, time FROM transfer "

// Transfer is a committed movement of assets caused by an operation on a pool.
type Transfer struct {
	Seq    uint64
	Op     string
	Pool   thor.Address
	Asset  thor.Address
	From   thor.Address
	To     thor.Address
	Amount uint64
	Time   uint64
}

// Order is the order of query results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter selects transfers. Zero fields match everything.
type Filter struct {
	Pool    *thor.Address
	Account *thor.Address // matches either side
	Offset  uint64
	Limit   uint64
	Order   Order
}

// TransferDB journals transfers in sqlite.
type TransferDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New open a transfer db.
func New(path string) (*TransferDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open transfer db")
	}
	// one connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(transferTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create transfer schema")
	}
	s, _, _ := sqlite3.Version()
	return &TransferDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db.
func NewMem() (*TransferDB, error) {
	return New(":memory:")
}

// Insert appends transfers in one sqlite transaction.
func (db *TransferDB) Insert(transfers []*Transfer) (err error) {
	if len(transfers) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare("INSERT INTO transfer(op, pool, asset, fromAddress, toAddress, amount, time) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tr := range transfers {
		res, err := stmt.Exec(
			tr.Op,
			tr.Pool.Bytes(),
			tr.Asset.Bytes(),
			tr.From.Bytes(),
			tr.To.Bytes(),
			// sqlite integers are signed 64 bits
			strconv.FormatUint(tr.Amount, 10),
			int64(tr.Time),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		tr.Seq = uint64(id)
	}
	return tx.Commit()
}

// Filter queries transfers.
func (db *TransferDB) Filter(ctx context.Context, f *Filter) ([]*Transfer, error) {
	var (
		stmt = selectColumns + "WHERE 1"
		args []any
	)
	if f == nil {
		f = &Filter{}
	}
	if f.Pool != nil {
		stmt += " AND pool = ?"
		args = append(args, f.Pool.Bytes())
	}
	if f.Account != nil {
		stmt += " AND (fromAddress = ? OR toAddress = ?)"
		args = append(args, f.Account.Bytes(), f.Account.Bytes())
	}
	if f.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if f.Limit > 0 {
		stmt += " LIMIT ?, ?"
		args = append(args, f.Offset, f.Limit)
	} else if f.Offset > 0 {
		stmt += " LIMIT ?, -1"
		args = append(args, f.Offset)
	}
	return db.query(ctx, stmt, args...)
}

func (db *TransferDB) query(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		var (
			seq    uint64
			op     string
			pool   []byte
			asset  []byte
			from   []byte
			to     []byte
			amount string
			time   int64
		)
		if err := rows.Scan(&seq, &op, &pool, &asset, &from, &to, &amount, &time); err != nil {
			return nil, err
		}
		value, err := strconv.ParseUint(amount, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "decode amount")
		}
		transfers = append(transfers, &Transfer{
			Seq:    seq,
			Op:     op,
			Pool:   thor.BytesToAddress(pool),
			Asset:  thor.BytesToAddress(asset),
			From:   thor.BytesToAddress(from),
			To:     thor.BytesToAddress(to),
			Amount: value,
			Time:   uint64(time),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// Path return db's path.
func (db *TransferDB) Path() string {
	return db.path
}

// SQLiteVersion returns the version of the linked sqlite library.
func (db *TransferDB) SQLiteVersion() string {
	return db.sqliteVersion
}

// Close close sqlite.
func (db *TransferDB) Close() error {
	return db.db.Close()
}
