package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/recipes/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the recipes server
//	-i int      online check interval in seconds
//	-db string  path of the local preferences database
//	-u string   start address, e.g. "/?query=suppe&diet=vegan"
//	-debug      log requests and responses
//
// Only these flags are taken from args, so other components may define
// their own.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-db", "-u"}, "-debug")

	fs := flag.NewFlagSet("recipes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the recipes server")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path of the local preferences database")
	fs.StringVar(&cfg.StartURL, "u", cfg.StartURL, "start address (path and query)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log requests and responses")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if *onlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %d", *onlineCheckInterval)
	}
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
