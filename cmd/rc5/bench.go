package main

import (
	"github.com/urfave/cli/v2"

	"rc5-go/pkg/benchmark"
	"rc5-go/pkg/log"
)

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "measure encode/decode latency and throughput",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "iterations",
			Aliases: []string{"n"},
			Usage:   "`NUMBER` of encode/decode samples",
			Value:   1000,
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Usage:   "payload size in `BYTES`, rounded down to whole blocks",
			Value:   4096,
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "run every word size with the configured rounds",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "also write the results as CSV to `FILE`",
		},
	},
	Action: benchCmd,
}

func benchCmd(c *cli.Context) error {
	opts := &benchmark.BenchmarkOptions{
		Params:      cfg.Params(),
		Iterations:  c.Int("iterations"),
		PayloadSize: c.Int("size"),
		KeySize:     cfg.KeySize,
	}

	var results []*benchmark.LatencyResults
	if c.Bool("all") {
		all, err := benchmark.RunAllBenchmarks(opts)
		if err != nil {
			log.Warn().Err(err).Msg("some benchmarks failed")
		}
		results = all
	} else {
		r, err := benchmark.BenchmarkLatency(opts)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		results = append(results, r)
	}
	for _, r := range results {
		benchmark.PrintResults(c.App.Writer, r)
	}

	if out := c.String("output"); out != "" && len(results) > 0 {
		if err := benchmark.SaveResultsToFile(results, out); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		log.Info().Str("file", out).Int("runs", len(results)).Msg("results saved")
	}
	return nil
}
