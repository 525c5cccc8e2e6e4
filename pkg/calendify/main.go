package calendify

import (
	"context"
	"fmt"
)

// Main is the entry point of the calendify application. It parses args,
// builds the [App], and dispatches to the requested command. Tests can call
// it directly with a cancellable context instead of building the binary.
//
// Environment variables:
//
//	CALENDIFY_PORT        - HTTP port (default: 8080)
//	CALENDIFY_JWT_SECRET  - HS256 secret for session tokens (required)
//	SURREALDB_URL         - SurrealDB WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS          - SurrealDB namespace (default: calendify)
//	SURREALDB_DB          - SurrealDB database (default: calendify)
//	SURREALDB_USER        - SurrealDB username (default: root)
//	SURREALDB_PASS        - SurrealDB password (default: root)
//	CALENDIFY_SMTP_HOST   - SMTP relay; empty disables email notifications
//	CALENDIFY_SMTP_PORT   - SMTP port (default: 587)
//	CALENDIFY_SMTP_USER   - SMTP username
//	CALENDIFY_SMTP_PASS   - SMTP password
//	CALENDIFY_SMTP_FROM   - From address for notification mail
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *RunCommand:
		return app.Run(ctx, c)
	case *MigrateCommand:
		return app.Migrate(ctx, c)
	default:
		return fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

// Migrate initializes store schema and verifies the store is reachable.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	a.logger.Info().Msg("store migrated")
	return nil
}
