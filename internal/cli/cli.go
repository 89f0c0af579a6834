package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Bridge *BridgeCommand
	Status *StatusCommand
	Show   *ShowCommand
	Clear  *ClearCommand
	Decide *DecideCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "readmark"
	parser.LongDescription = "Local reading-position capture and resume for web documents."

	cmds := &commands{
		Bridge: &BridgeCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Show:   &ShowCommand{globals: &globals, version: version},
		Clear:  &ClearCommand{globals: &globals, version: version},
		Decide: &DecideCommand{globals: &globals, version: version},
	}

	parser.AddCommand("bridge", "Run the host bridge", "Run the resume engine against a host: JSON events on stdin, actions on stdout.", cmds.Bridge)
	parser.AddCommand("status", "Show storage health and the stored position", "Show storage backend, database size, and a summary of the stored position.", cmds.Status)
	parser.AddCommand("show", "Print the stored position record", "Print the stored position record in full.", cmds.Show)
	parser.AddCommand("clear", "Forget the stored position", "Remove the stored position record.", cmds.Clear)
	parser.AddCommand("decide", "Evaluate the resume decision for a document", "Evaluate what the resume engine would do for a given document and print the decision.", cmds.Decide)

	return parser, &globals, cmds
}

// Run is the main entry point for the readmark CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("readmark %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
