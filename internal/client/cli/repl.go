package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with
// a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	Report(ctx context.Context) error
	SOS(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Dashboard(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Command handlers log their own errors; the loop itself stays resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {

	printlnFn("Ocean hazard reporting client (type 'help' for commands)")

	for {
		fmt.Printf("oceanwatch (%s)> ", statusFn())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: report, sos, sync, status, dashboard, exit")
		case "report":
			_ = a.Report(ctx)
		case "sos":
			_ = a.SOS(ctx)
		case "sync":
			_ = a.Sync(ctx)
		case "status":
			_ = a.Status(ctx)
		case "dashboard":
			_ = a.Dashboard(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}
