// Package persistence stores the game in SQLite: the flat key/value state
// snapshot, the event log and the arrest history.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/game"
)

// DB wraps a SQLite connection for game persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS game_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY,
		time_ms INTEGER NOT NULL,
		category TEXT NOT NULL,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS arrests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		time_ms INTEGER NOT NULL,
		defense TEXT NOT NULL,
		outcome TEXT NOT NULL,
		sentence INTEGER NOT NULL,
		seizure_rate REAL NOT NULL,
		fee REAL NOT NULL,
		seized REAL NOT NULL,
		money_before REAL NOT NULL,
		money_after REAL NOT NULL,
		total_earned REAL NOT NULL,
		fake_claims INTEGER NOT NULL,
		viral_views REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState writes a flat snapshot (full replace).
func (db *DB) SaveState(kv map[string]string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM game_state"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO game_state (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range kv {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("insert state %q: %w", k, err)
		}
	}

	return tx.Commit()
}

// LoadState reads the flat snapshot. An empty map means no save exists.
func (db *DB) LoadState() (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM game_state"); err != nil {
		return nil, err
	}
	kv := make(map[string]string, len(rows))
	for _, r := range rows {
		kv[r.Key] = r.Value
	}
	return kv, nil
}

// HasSave reports whether a snapshot has been written.
func (db *DB) HasSave() (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM game_state"); err != nil {
		return false, err
	}
	return n > 0, nil
}

type eventRow struct {
	Seq      uint64 `db:"seq"`
	TimeMS   int64  `db:"time_ms"`
	Category string `db:"category"`
	Text     string `db:"text"`
}

// SaveEvents stores log entries not yet saved and keeps only the newest
// game.MaxLogEntries rows.
func (db *DB) SaveEvents(entries []game.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO events (seq, time_ms, category, text) VALUES (?, ?, ?, ?)",
			e.Seq, e.Time.UnixMilli(), e.Category, e.Text,
		)
		if err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		"DELETE FROM events WHERE seq NOT IN (SELECT seq FROM events ORDER BY seq DESC LIMIT ?)",
		game.MaxLogEntries,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, oldest first.
func (db *DB) RecentEvents(limit int) ([]game.Entry, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT seq, time_ms, category, text FROM events ORDER BY seq DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	entries := make([]game.Entry, len(rows))
	for i, r := range rows {
		entries[len(rows)-1-i] = game.Entry{
			Seq:      r.Seq,
			Time:     time.UnixMilli(r.TimeMS).UTC(),
			Category: r.Category,
			Text:     r.Text,
		}
	}
	return entries, nil
}

// DeleteEvents clears the stored event log.
func (db *DB) DeleteEvents() error {
	_, err := db.conn.Exec("DELETE FROM events")
	return err
}

type arrestRow struct {
	RunID       string  `db:"run_id"`
	Number      int     `db:"number"`
	TimeMS      int64   `db:"time_ms"`
	Defense     string  `db:"defense"`
	Outcome     string  `db:"outcome"`
	Sentence    int     `db:"sentence"`
	SeizureRate float64 `db:"seizure_rate"`
	Fee         float64 `db:"fee"`
	Seized      float64 `db:"seized"`
	MoneyBefore float64 `db:"money_before"`
	MoneyAfter  float64 `db:"money_after"`
	TotalEarned float64 `db:"total_earned"`
	FakeClaims  int     `db:"fake_claims"`
	ViralViews  float64 `db:"viral_views"`
}

// RecordArrest appends one arrest to the history.
func (db *DB) RecordArrest(a game.Arrest) error {
	row := arrestRow{
		RunID: a.RunID, Number: a.Number, TimeMS: a.Time.UnixMilli(),
		Defense: a.Defense, Outcome: string(a.Outcome), Sentence: a.Sentence,
		SeizureRate: a.SeizureRate, Fee: a.Fee, Seized: a.Seized,
		MoneyBefore: a.MoneyBefore, MoneyAfter: a.MoneyAfter,
		TotalEarned: a.TotalEarned, FakeClaims: a.FakeClaims, ViralViews: a.ViralViews,
	}
	_, err := db.conn.NamedExec(`INSERT INTO arrests
		(run_id, number, time_ms, defense, outcome, sentence, seizure_rate, fee, seized,
		 money_before, money_after, total_earned, fake_claims, viral_views)
		VALUES (:run_id, :number, :time_ms, :defense, :outcome, :sentence, :seizure_rate, :fee, :seized,
		 :money_before, :money_after, :total_earned, :fake_claims, :viral_views)`, row)
	if err != nil {
		return fmt.Errorf("insert arrest %d: %w", a.Number, err)
	}
	return nil
}

// RecentArrests returns the most recent N arrests, newest first.
func (db *DB) RecentArrests(limit int) ([]game.Arrest, error) {
	var rows []arrestRow
	err := db.conn.Select(&rows, `SELECT run_id, number, time_ms, defense, outcome, sentence,
		seizure_rate, fee, seized, money_before, money_after, total_earned, fake_claims, viral_views
		FROM arrests ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	arrests := make([]game.Arrest, 0, len(rows))
	for _, r := range rows {
		arrests = append(arrests, game.Arrest{
			RunID: r.RunID, Number: r.Number, Time: time.UnixMilli(r.TimeMS).UTC(),
			Defense: r.Defense, Outcome: catalog.Outcome(r.Outcome), Sentence: r.Sentence,
			SeizureRate: r.SeizureRate, Fee: r.Fee, Seized: r.Seized,
			MoneyBefore: r.MoneyBefore, MoneyAfter: r.MoneyAfter,
			TotalEarned: r.TotalEarned, FakeClaims: r.FakeClaims, ViralViews: r.ViralViews,
		})
	}
	return arrests, nil
}

// DeleteArrests clears the arrest history.
func (db *DB) DeleteArrests() error {
	_, err := db.conn.Exec("DELETE FROM arrests")
	return err
}

// SaveMeta stores a key-value pair in game metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key yields "" and no error.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SaveGame performs a full save of the state and any new log entries.
func (db *DB) SaveGame(s game.State, log *game.EventLog) error {
	if err := db.SaveState(game.Encode(s)); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if log != nil {
		last, err := db.GetMeta("last_event_seq")
		if err != nil {
			return fmt.Errorf("read meta: %w", err)
		}
		since, _ := strconv.ParseUint(last, 10, 64)
		seq := log.Seq()
		if seq < since {
			// The log restarted, e.g. after a full reset.
			since = 0
		}
		if err := db.SaveEvents(log.Since(since)); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		if err := db.SaveMeta("last_event_seq", strconv.FormatUint(seq, 10)); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
	}
	if err := db.SaveMeta("saved_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Debug("game saved", "run", s.RunID, "money", int64(s.Money))
	return nil
}

// LoadGame restores the saved state and event log. It reports false when no
// save exists.
func (db *DB) LoadGame(cat *catalog.Catalog, now time.Time) (game.State, []game.Entry, bool, error) {
	ok, err := db.HasSave()
	if err != nil {
		return game.State{}, nil, false, fmt.Errorf("check save: %w", err)
	}
	if !ok {
		return game.State{}, nil, false, nil
	}
	kv, err := db.LoadState()
	if err != nil {
		return game.State{}, nil, false, fmt.Errorf("load state: %w", err)
	}
	entries, err := db.RecentEvents(game.MaxLogEntries)
	if err != nil {
		return game.State{}, nil, false, fmt.Errorf("load events: %w", err)
	}
	return game.Decode(kv, cat, now), entries, true, nil
}
