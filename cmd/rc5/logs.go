package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"

	"rc5-go/pkg/log"
)

// Layouts tried, in order, for absolute time specs.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// parseTimeSpec accepts a duration back from now ("90s", "1h30m", "2d",
// "1w") or an absolute timestamp, read in local time when it carries no zone.
func parseTimeSpec(spec string, now time.Time) (time.Time, error) {
	if d, err := parseDuration(spec); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.ParseInLocation(layout, spec, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification %q: use a duration (30m, 2d, 1w) or a timestamp (2024-05-01T15:04:05Z)", spec)
}

func parseDuration(spec string) (time.Duration, error) {
	for suffix, unit := range map[string]time.Duration{"d": 24 * time.Hour, "w": 7 * 24 * time.Hour} {
		if n, ok := strings.CutSuffix(spec, suffix); ok {
			v, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return 0, err
			}
			return time.Duration(v * float64(unit)), nil
		}
	}
	return time.ParseDuration(spec)
}

var logsCommand = &cli.Command{
	Name:      "logs",
	Usage:     "print entries from the SQLite log database",
	UsageText: "rc5 logs [--dbfile FILE] [--last|--since|--between] [options]",
	Description: `Reads the database written with --log-db (or log_db in the configuration).
Time specs are durations back from now (5m, 1h30m, 2d, 1w) or timestamps
(2024-05-01T15:04:05Z, "2024-05-01 10:00:00", 2024-05-01).`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dbfile",
			Aliases: []string{"f"},
			Usage:   "log database `FILE`, defaults to the configured log_db",
		},
		&cli.BoolFlag{
			Name:    "pretty",
			Aliases: []string{"p"},
			Usage:   "one readable line per entry instead of raw JSON",
		},
		&cli.BoolFlag{Name: "last", Usage: "mode: the most recent entries (default)"},
		&cli.BoolFlag{Name: "since", Usage: "mode: entries since --start"},
		&cli.BoolFlag{Name: "between", Usage: "mode: entries between --start and --end"},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "`NUMBER` of entries for --last",
			Value:   log.DefaultLimit,
		},
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "start `TIME_SPEC` for --since and --between",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "end `TIME_SPEC` for --between",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "maximum `NUMBER` of entries for --since and --between",
			Value:   1000,
		},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	modes := 0
	for _, m := range []string{"last", "since", "between"} {
		if c.Bool(m) {
			modes++
		}
	}
	if modes > 1 {
		return cli.Exit("only one of --last, --since and --between may be given", 1)
	}

	dbFile := c.String("dbfile")
	if dbFile == "" {
		dbFile = cfg.LogDB
	}
	if dbFile == "" {
		return cli.Exit("no log database: pass --dbfile or set log_db", 1)
	}
	// The Before hook may have opened the configured database already.
	if err := log.Close(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := log.Init(dbFile); err != nil {
		return cli.Exit(fmt.Sprintf("open log database: %v", err), 1)
	}

	now := time.Now()
	var (
		entries []log.Entry
		err     error
	)
	switch {
	case c.Bool("since"):
		if !c.IsSet("start") {
			return cli.Exit("--since needs --start", 1)
		}
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		entries, err = log.GetLogsSince(start, c.Int("limit"))
	case c.Bool("between"):
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("--between needs --start and --end", 1)
		}
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		end, perr := parseTimeSpec(c.String("end"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		entries, err = log.GetLogsBetween(start, end, c.Int("limit"))
	default:
		n := c.Int("count")
		if n <= 0 {
			return cli.Exit("--count must be positive", 1)
		}
		entries, err = log.GetLastNLogs(n)
	}
	if err != nil {
		if errors.Is(err, log.ErrNotInitialized) {
			return cli.Exit("log database closed while reading", 2)
		}
		return cli.Exit(fmt.Sprintf("read logs: %v", err), 1)
	}

	for _, e := range entries {
		if c.Bool("pretty") {
			fmt.Fprintln(c.App.Writer, prettyEntry(e))
		} else {
			fmt.Fprintln(c.App.Writer, e.Data)
		}
	}
	return nil
}

// prettyEntry renders the time, level and message of a record followed by
// its remaining fields as key=value pairs.
func prettyEntry(e log.Entry) string {
	rec := gjson.Parse(e.Data)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s",
		rec.Get("time").String(),
		strings.ToUpper(rec.Get("level").String()),
		rec.Get("message").String())
	rec.ForEach(func(k, v gjson.Result) bool {
		switch k.String() {
		case "time", "level", "message":
		default:
			fmt.Fprintf(&b, " %s=%s", k.String(), v.String())
		}
		return true
	})
	return b.String()
}
