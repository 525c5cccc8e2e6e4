package calendify

// Command represents a discrete application operation with its specific
// configuration. Commands are created by [Parse] from the command line and
// executed through [App]: App.Run for RunCommand, App.Migrate for
// MigrateCommand.
type Command interface {
	// Name returns the command identifier used for routing. It matches the CLI
	// sub-command name.
	Name() string
}

// RunCommand starts the HTTP server. All configuration comes from [Config];
// run-specific options can be added here when they exist.
type RunCommand struct{}

func (c *RunCommand) Name() string { return "run" }

// MigrateCommand initializes store schema. SurrealDB creates tables on first
// insert so this is close to a no-op there, but it verifies connectivity and
// gives other store backends a hook.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string { return "migrate" }
