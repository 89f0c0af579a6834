package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// BridgeCommand — run the resume engine against a host over stdio.
type BridgeCommand struct {
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show storage backend, size, and stored-position summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ShowCommand — print the stored position record in full.
type ShowCommand struct {
	globals *GlobalFlags
	version string
}

// ClearCommand — forget the stored position.
type ClearCommand struct {
	globals *GlobalFlags
	version string
}

// DecideCommand — evaluate the resume decision for a hypothetical load.
type DecideCommand struct {
	URL     string `long:"url" description:"Document path (required)"`
	PageNav bool   `long:"page-nav" description:"Document has a page-navigation control"`
	Sidebar bool   `long:"sidebar" description:"Document has a chapter sidebar"`
	Deck    bool   `long:"deck" description:"Document is a slide deck"`
	Session bool   `long:"in-session" description:"Treat the session as already answered"`

	globals *GlobalFlags
	version string
}
