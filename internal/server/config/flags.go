package config

import (
	"flag"
	"io"

	"github.com/ccsafarmai/farmai/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   session signing secret
//	-u string   public application URL used in email links
//	-l string   log level
//	-f int      free-tier prompt limit
//
// The arguments are filtered with flagx.FilterArgs first so that -c/-config
// and unrelated flags do not fail the parse.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-u", "-l", "-f"})

	fs := flag.NewFlagSet("farmai", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve HTTP on")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to serve gRPC health on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")
	fs.StringVar(&config.AppURL, "u", config.AppURL, "public application URL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.IntVar(&config.FreeTierLimit, "f", config.FreeTierLimit, "free tier prompt limit")

	return fs.Parse(args)
}
