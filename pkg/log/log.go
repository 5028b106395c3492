// Package log is the rc5-go logger: zerolog events written to the console,
// to an SQLite table of JSON records, or to both.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"rc5-go/pkg/appdir"
)

var (
	ErrNotInitialized     = errors.New("log: sqlite sink not initialized, call log.Init() first")
	ErrAlreadyInitialized = errors.New("log: sqlite sink already initialized")
)

// Fixed width so that stored timestamps compare as strings.
const timeFieldFormat = "2006-01-02T15:04:05.000000000Z07:00"

var (
	mu       sync.RWMutex
	logger   = zerolog.Nop()
	console  io.Writer
	level    = zerolog.InfoLevel
	sink     *sqliteWriter
	dbHandle *sql.DB

	writtenSinceStart atomic.Int64
)

type sqliteWriter struct {
	mu   sync.Mutex
	db   *sql.DB
	stmt *sql.Stmt
}

func openSQLite(path string) (*sqliteWriter, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	if _, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create logs table: %w", err)
	}
	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_logs_json_time ON logs (json_extract(log_data, '$.time'));`,
		`CREATE INDEX IF NOT EXISTS idx_logs_json_level ON logs (json_extract(log_data, '$.level'));`,
	} {
		if _, err = db.Exec(idx); err != nil {
			stdlog.Printf("warning: create log index: %v", err)
		}
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stmt == nil {
		return 0, ErrNotInitialized
	}
	if _, err := w.stmt.Exec(string(p)); err != nil {
		return 0, err
	}
	writtenSinceStart.Add(1)
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.stmt != nil {
		errs = append(errs, w.stmt.Close())
		w.stmt = nil
	}
	if w.db != nil {
		errs = append(errs, w.db.Close())
		w.db = nil
	}
	return errors.Join(errs...)
}

// rebuild must be called with mu held.
func rebuild() {
	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}
	if sink != nil {
		writers = append(writers, sink)
	}
	switch len(writers) {
	case 0:
		logger = zerolog.Nop()
		return
	case 1:
		logger = zerolog.New(writers[0])
	default:
		logger = zerolog.New(zerolog.MultiLevelWriter(writers...))
	}
	logger = logger.Level(level).With().Timestamp().Logger()
}

// SetStd sends human readable output to stderr. Stdout is left to the
// command results.
func SetStd() {
	SetConsole(zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.RFC3339,
	})
}

// SetConsole replaces the console writer; nil disables console output.
func SetConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
	rebuild()
}

// SetLevel parses a zerolog level name ("debug", "info", ...).
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	rebuild()
	return nil
}

// Init adds the SQLite sink. A relative dbFile is placed in the application
// directory.
func Init(dbFile string) error {
	if dbFile == "" {
		return errors.New("log: empty database file name")
	}
	path, err := appdir.Resolve(dbFile)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		return ErrAlreadyInitialized
	}
	w, err := openSQLite(path)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	zerolog.TimeFieldFormat = timeFieldFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	sink, dbHandle = w, w.db
	writtenSinceStart.Store(0)
	rebuild()
	return nil
}

// Close detaches and closes the SQLite sink. Console output keeps working.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return nil
	}
	last := zerolog.New(sink).With().Timestamp().Logger()
	last.Info().Msg("closing sqlite log sink")
	w := sink
	sink, dbHandle = nil, nil
	rebuild()
	if err := w.close(); err != nil {
		return fmt.Errorf("log: close sqlite sink: %w", err)
	}
	return nil
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Logger returns a copy of the package logger, for components that take a
// zerolog.Logger directly.
func Logger() zerolog.Logger { return *current() }

func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }
func Fatal() *zerolog.Event { return current().Fatal() }

func Printf(format string, v ...any) {
	current().Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	current().Fatal().Msgf(format, v...)
}
