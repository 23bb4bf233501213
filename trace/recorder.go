package trace

import (
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"

	"github.com/moffa90/go-bmi/bmi"
)

// Operation names stored in the op column.
const (
	OpRead              = "read"
	OpWrite             = "write"
	OpMailboxAddresses  = "mailbox addresses"
	OpPendingEventsFunc = "pending events func"
	OpPendingEvents     = "pending events"
)

// DefaultBatchSize is the number of transactions buffered before they are
// written to the database.
const DefaultBatchSize = 1000

// Transaction is one recorded bus call.
type Transaction struct {
	ID      string
	Session string
	Seq     int
	Op      string
	Mode    string
	Address uint32
	Length  int
	OK      bool
	Error   string
	DataHex string
}

// Recorder is a bmi.Bus that forwards every call to another bus and
// records it into a SQLite database.
//
// Rows are buffered and written in batches. Call Flush or Close to make
// sure every transaction reaches the database.
type Recorder struct {
	bus bmi.Bus

	mu        sync.Mutex
	db        *sql.DB
	statement *sql.Stmt
	session   string
	seq       int
	batchSize int
	toWrite   []Transaction
	batchErr  error
	closed    bool
}

// Option is a functional option for configuring the Recorder.
type Option func(*Recorder)

// WithBatchSize sets how many transactions are buffered between writes.
// Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// New opens (or creates) the SQLite database at path and returns a
// recorder wrapping bus. Every recorder gets its own trace session ID,
// so several runs can share one database.
//
// Example:
//
//	rec, err := trace.New(target, "bmi_trace.sqlite3")
//	if err != nil {
//	    return err
//	}
//	defer rec.Close()
//	s := bmi.New(rec)
func New(bus bmi.Bus, path string, opts ...Option) (*Recorder, error) {
	if bus == nil {
		return nil, fmt.Errorf("bus cannot be nil")
	}

	r := &Recorder{
		bus:       bus,
		session:   xid.New().String(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace database %s: %w", path, err)
	}
	r.db = db

	if err := r.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	if err := r.prepareStatement(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// Session returns the ID shared by every transaction of this recorder.
func (r *Recorder) Session() string {
	return r.session
}

// MailboxAddresses implements bmi.Bus.
func (r *Recorder) MailboxAddresses() (bmi.MailboxTable, error) {
	table, err := r.bus.MailboxAddresses()
	r.record(Transaction{Op: OpMailboxAddresses}, tableBytes(table), err)
	return table, err
}

// PendingEventsFunc implements bmi.Bus. A non-nil hook is wrapped so each
// query is recorded too.
func (r *Recorder) PendingEventsFunc() (bmi.PendingEventsFunc, error) {
	fn, err := r.bus.PendingEventsFunc()
	r.record(Transaction{Op: OpPendingEventsFunc}, nil, err)
	if err != nil || fn == nil {
		return fn, err
	}

	return func() (bmi.PendingEvents, error) {
		events, err := fn()
		var data []byte
		for _, n := range events.AvailableRecvBytes {
			data = binary.LittleEndian.AppendUint32(data, n)
		}
		r.record(Transaction{Op: OpPendingEvents}, data, err)
		return events, err
	}, nil
}

// ReadWrite implements bmi.Bus.
func (r *Recorder) ReadWrite(address uint32, buf []byte, mode bmi.Mode) error {
	op := OpWrite
	if mode.IsRead() {
		op = OpRead
	}

	err := r.bus.ReadWrite(address, buf, mode)
	r.record(Transaction{
		Op:      op,
		Mode:    mode.String(),
		Address: address,
		Length:  len(buf),
	}, buf, err)
	return err
}

func (r *Recorder) record(t Transaction, data []byte, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.seq++
	t.ID = xid.New().String()
	t.Session = r.session
	t.Seq = r.seq
	t.DataHex = hex.EncodeToString(data)
	t.OK = err == nil
	if err != nil {
		t.Error = err.Error()
	}

	r.toWrite = append(r.toWrite, t)
	if len(r.toWrite) >= r.batchSize {
		// A failed batch stays buffered and its error is reported by the
		// next Flush or Close.
		if err := r.flushLocked(); err != nil {
			r.batchErr = err
		}
	}
}

// Flush writes all the buffered transactions to the database. It also
// reports a batch write that failed since the last Flush, even when the
// retry succeeds.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.flushLocked(); err != nil {
		r.batchErr = nil
		return err
	}
	return r.takeBatchErr()
}

func (r *Recorder) takeBatchErr() error {
	err := r.batchErr
	r.batchErr = nil
	if err != nil {
		return fmt.Errorf("earlier batch write failed: %w", err)
	}
	return nil
}

func (r *Recorder) flushLocked() error {
	if len(r.toWrite) == 0 || r.db == nil {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin trace transaction: %w", err)
	}

	stmt := tx.Stmt(r.statement)
	for _, t := range r.toWrite {
		_, err := stmt.Exec(t.ID, t.Session, t.Seq, t.Op, t.Mode, t.Address, t.Length, t.OK, t.Error, t.DataHex)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert transaction %d: %w", t.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trace transaction: %w", err)
	}

	r.toWrite = nil
	return nil
}

// Close flushes buffered transactions and closes the database. Calls made
// through the recorder afterwards are forwarded but not recorded.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	flushErr := r.flushLocked()
	if flushErr == nil {
		flushErr = r.takeBatchErr()
	}
	r.closed = true
	r.statement.Close()
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close trace database: %w", err)
	}
	r.db = nil
	return flushErr
}

// Transactions returns every recorded transaction of this trace session, oldest
// first. Buffered transactions are flushed before the query.
func (r *Recorder) Transactions() ([]Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("recorder is closed")
	}
	if err := r.flushLocked(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT id, session, seq, op, mode, address, length, ok, error, data_hex
		FROM bus_transaction
		WHERE session = ?
		ORDER BY seq
	`, r.session)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.Session, &t.Seq, &t.Op, &t.Mode, &t.Address, &t.Length, &t.OK, &t.Error, &t.DataHex)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *Recorder) createTable() error {
	queries := []string{`
		CREATE TABLE IF NOT EXISTS bus_transaction
		(
			id       VARCHAR(200) NOT NULL PRIMARY KEY,
			session  VARCHAR(200) NOT NULL,
			seq      INTEGER      NOT NULL,
			op       VARCHAR(100) NOT NULL,
			mode     VARCHAR(100) NOT NULL DEFAULT '',
			address  INTEGER      NOT NULL DEFAULT 0,
			length   INTEGER      NOT NULL DEFAULT 0,
			ok       BOOLEAN      NOT NULL,
			error    TEXT         NOT NULL DEFAULT '',
			data_hex TEXT         NOT NULL DEFAULT ''
		);
	`, `
		CREATE INDEX IF NOT EXISTS bus_transaction_session_seq_index
			ON bus_transaction (session, seq);
	`, `
		CREATE INDEX IF NOT EXISTS bus_transaction_address_index
			ON bus_transaction (address);
	`}

	for _, q := range queries {
		if _, err := r.db.Exec(q); err != nil {
			return fmt.Errorf("create trace table: %w", err)
		}
	}
	return nil
}

func (r *Recorder) prepareStatement() error {
	stmt, err := r.db.Prepare(`
		INSERT INTO bus_transaction
			(id, session, seq, op, mode, address, length, ok, error, data_hex)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare trace statement: %w", err)
	}
	r.statement = stmt
	return nil
}

func tableBytes(table bmi.MailboxTable) []byte {
	data := make([]byte, 0, len(table)*4)
	for _, a := range table {
		data = binary.LittleEndian.AppendUint32(data, a)
	}
	return data
}
