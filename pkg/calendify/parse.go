package calendify

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Parse parses command line arguments and returns the command to execute, the
// application configuration, and any error that occurred. Flags override
// environment variables, which override defaults.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("calendify", flag.ContinueOnError)

	var (
		port        = flagSet.String("port", getEnv("CALENDIFY_PORT", "8080"), "Server port")
		memoryStore = flagSet.Bool("memory-store", false, "Use the in-memory store instead of SurrealDB (development only)")
		surrealURL  = flagSet.String("surrealdb-url", getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"), "SurrealDB WebSocket URL")
		surrealNS   = flagSet.String("surrealdb-ns", getEnv("SURREALDB_NS", "calendify"), "SurrealDB namespace")
		surrealDB   = flagSet.String("surrealdb-db", getEnv("SURREALDB_DB", "calendify"), "SurrealDB database")
		surrealUser = flagSet.String("surrealdb-user", getEnv("SURREALDB_USER", "root"), "SurrealDB username")
		surrealPass = flagSet.String("surrealdb-pass", getEnv("SURREALDB_PASS", "root"), "SurrealDB password")
		smtpHost    = flagSet.String("smtp-host", getEnv("CALENDIFY_SMTP_HOST", ""), "SMTP host for email notifications (empty disables email)")
		smtpPort    = flagSet.String("smtp-port", getEnv("CALENDIFY_SMTP_PORT", "587"), "SMTP port")
		smtpUser    = flagSet.String("smtp-user", getEnv("CALENDIFY_SMTP_USER", ""), "SMTP username")
		smtpPass    = flagSet.String("smtp-pass", getEnv("CALENDIFY_SMTP_PASS", ""), "SMTP password")
		smtpFrom    = flagSet.String("smtp-from", getEnv("CALENDIFY_SMTP_FROM", "no-reply@calendify.local"), "From address for notifications")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: calendify [flags] <command>

Commands:
  run       Start the Calendify server
  migrate   Initialize store schema

Examples:
  calendify run                                  # SurrealDB at ws://localhost:8000/rpc
  calendify -memory-store run                    # In-memory store, no database needed
  calendify -surrealdb-url ws://db:8000/rpc run
  calendify -port=8090 run
  calendify migrate`)
	}

	smtpPortNum, err := strconv.Atoi(*smtpPort)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid SMTP port %q: %w", *smtpPort, err)
	}

	config := &Config{
		ServerPort:    *port,
		MemoryStore:   *memoryStore,
		SurrealDBURL:  *surrealURL,
		SurrealDBNS:   *surrealNS,
		SurrealDBDB:   *surrealDB,
		SurrealDBUser: *surrealUser,
		SurrealDBPass: *surrealPass,
		JWTSecret:     os.Getenv("CALENDIFY_JWT_SECRET"),
		SMTPHost:      *smtpHost,
		SMTPPort:      smtpPortNum,
		SMTPUser:      *smtpUser,
		SMTPPass:      *smtpPass,
		SMTPFrom:      *smtpFrom,
	}

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{}
	case "migrate":
		cmd = &MigrateCommand{}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, migrate", remainingArgs[0])
	}

	return cmd, config, nil
}

// getEnv returns the environment variable's value or the fallback when unset.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
