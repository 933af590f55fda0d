package config

import (
	"flag"
	"os"
	"time"

	"ventascli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-t int      request timeout in seconds
//	-w int      edit window in minutes
//	-p int      history page size
//	-d string   path to the local cache database
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-w", "-p", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	editWindow := fs.Int("w", int(cfg.EditWindow.Minutes()), "edit window (in minutes)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "history page size")
	fs.StringVar(&cfg.CacheDBPath, "d", cfg.CacheDBPath, "path to the local cache database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.EditWindow = time.Duration(*editWindow) * time.Minute
}
