package log

import (
	"database/sql"
	"fmt"
	"slices"
	"time"
)

const DefaultLimit = 100

// Entry is one stored record; Data is the raw zerolog JSON line.
type Entry struct {
	ID         int64
	InsertedAt time.Time
	Data       string
}

func handle() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()
	if dbHandle == nil {
		return nil, ErrNotInitialized
	}
	return dbHandle, nil
}

var insertedAtLayouts = []string{
	time.DateTime,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

func parseInsertedAt(ts string) time.Time {
	for _, layout := range insertedAtLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var insertedAt string
		if err := rows.Scan(&e.ID, &insertedAt, &e.Data); err != nil {
			return nil, fmt.Errorf("log: scan entry: %w", err)
		}
		e.InsertedAt = parseInsertedAt(insertedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("log: iterate entries: %w", err)
	}
	return entries, nil
}

// GetLastNLogs returns the n most recent entries, oldest first.
func GetLastNLogs(n int) ([]Entry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Entry{}, nil
	}
	rows, err := db.Query(`SELECT id, inserted_at, log_data FROM logs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("log: query last %d: %w", n, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// GetLogsSinceStart returns what this process wrote since Init.
func GetLogsSinceStart() ([]Entry, error) {
	return GetLastNLogs(int(writtenSinceStart.Load()))
}

// GetLogsBetween selects entries by their event time, inclusive on both ends,
// ordered by event time. limit <= 0 means DefaultLimit.
func GetLogsBetween(start, end time.Time, limit int) ([]Entry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	from := start.UTC().Format(timeFieldFormat)
	to := end.UTC().Format(timeFieldFormat)
	rows, err := db.Query(`
        SELECT id, inserted_at, log_data
        FROM logs
        WHERE json_extract(log_data, '$.time') >= ? AND json_extract(log_data, '$.time') <= ?
        ORDER BY json_extract(log_data, '$.time') ASC, id ASC
        LIMIT ?`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("log: query between %s and %s: %w", from, to, err)
	}
	return scanEntries(rows)
}

func GetLogsSince(start time.Time, limit int) ([]Entry, error) {
	return GetLogsBetween(start, time.Now(), limit)
}
