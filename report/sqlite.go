package report

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

// SQLiteReport writes every message lifecycle event into a SQLite
// database, one row per event, plus a per-tick connectivity snapshot,
// for downstream query-based analysis. Grounded on database/sql + the
// blank-imported github.com/mattn/go-sqlite3 driver, the same
// sql.Open("sqlite3", ...) pattern as pkg/archive.NewSqliteBackend.
type SQLiteReport struct {
	db    *sql.DB
	world *world.World
}

// NewSQLiteReport opens (creating if necessary) a SQLite database at
// path, lays down its events and links tables, and subscribes to
// every lifecycle and tick hook the scheduler dispatches.
func NewSQLiteReport(s *schedule.Scheduler, w *world.World, path string) (*SQLiteReport, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("report: open sqlite database: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS events (
	time      REAL    NOT NULL,
	kind      TEXT    NOT NULL,
	msg_id    INTEGER NOT NULL,
	from_host INTEGER,
	to_host   INTEGER,
	size      INTEGER NOT NULL,
	hop_count INTEGER
);
CREATE TABLE IF NOT EXISTS links (
	time      REAL    NOT NULL,
	from_host INTEGER NOT NULL,
	to_host   INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: create tables: %w", err)
	}

	r := &SQLiteReport{db: db, world: w}

	s.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(r.onCreate))
	s.Subscribe(schedule.HookPosTransferComplete, schedule.HookFunc(r.onTransfer))
	s.Subscribe(schedule.HookPosDrop, schedule.HookFunc(r.onDrop))
	s.Subscribe(schedule.HookPosTick, schedule.HookFunc(r.onTick))

	return r, nil
}

// Close closes the underlying database handle.
func (r *SQLiteReport) Close() error {
	return r.db.Close()
}

// DB exposes the underlying handle for read-only queries against the
// events and links tables.
func (r *SQLiteReport) DB() *sql.DB {
	return r.db
}

func (r *SQLiteReport) insert(now float64, kind string, m message.Message, from, to message.HostAddress) {
	// HopPath lists every host the copy has visited, source included.
	hops := len(m.HopPath) - 1
	if hops < 0 {
		hops = 0
	}
	_, err := r.db.Exec(
		`INSERT INTO events(time, kind, msg_id, from_host, to_host, size, hop_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		now, kind, m.ID, from, to, m.Size, hops,
	)
	if err != nil {
		// A single lost row does not warrant aborting a running
		// simulation; the error is discarded.
		return
	}
}

func (r *SQLiteReport) onCreate(ctx sim.HookCtx) {
	p := ctx.Item.(schedule.Payload)
	m := p.Item.(message.Message)
	r.insert(p.Now, "CREATE", m, m.From, m.To)
}

func (r *SQLiteReport) onTransfer(ctx sim.HookCtx) {
	p := ctx.Item.(schedule.Payload)
	ev := p.Item.(schedule.TransferEvent)

	kind := "FORWARD"
	if ev.To == ev.Message.To {
		kind = "DELIVER"
	}
	r.insert(p.Now, kind, ev.Message, ev.Message.From, ev.To)
}

func (r *SQLiteReport) onDrop(ctx sim.HookCtx) {
	p := ctx.Item.(schedule.Payload)
	ev := p.Item.(schedule.DropEvent)
	r.insert(p.Now, "DROP", ev.Message, ev.Message.From, ev.Host)
}

// onTick persists one links row per currently open connection, one
// direction only (from < to), so a symmetric pair of Connections
// produces a single row per snapshot rather than two.
func (r *SQLiteReport) onTick(ctx sim.HookCtx) {
	if r.world == nil {
		return
	}
	p := ctx.Item.(schedule.Payload)
	now := p.Now

	for _, a := range r.world.HostAddresses() {
		host := r.world.Host(a)
		for _, b := range host.Interface.Connections() {
			if a >= b {
				continue
			}
			if _, err := r.db.Exec(
				`INSERT INTO links(time, from_host, to_host) VALUES (?, ?, ?)`,
				now, a, b,
			); err != nil {
				continue
			}
		}
	}
}
