package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubExec struct {
	calls []string
}

func (s *stubExec) Report(ctx context.Context) error    { s.calls = append(s.calls, "report"); return nil }
func (s *stubExec) SOS(ctx context.Context) error       { s.calls = append(s.calls, "sos"); return nil }
func (s *stubExec) Sync(ctx context.Context) error      { s.calls = append(s.calls, "sync"); return nil }
func (s *stubExec) Status(ctx context.Context) error    { s.calls = append(s.calls, "status"); return nil }
func (s *stubExec) Dashboard(ctx context.Context) error { s.calls = append(s.calls, "dashboard"); return nil }

func runWithInput(t *testing.T, input string) (*stubExec, []string) {
	t.Helper()

	var printed []string
	origPrintln := printlnFn
	printlnFn = func(a ...any) (int, error) {
		printed = append(printed, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrintln })

	stub := &stubExec{}
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), stub, func() string { return "offline" }, scanner)
	return stub, printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	stub, _ := runWithInput(t, "report\nsos\nsync\nstatus\ndashboard\nexit\n")
	require.Equal(t, []string{"report", "sos", "sync", "status", "dashboard"}, stub.calls)
}

func TestRunREPL_ExitsOnQuit(t *testing.T) {
	stub, _ := runWithInput(t, "quit\nreport\n")
	require.Empty(t, stub.calls)
}

func TestRunREPL_SkipsBlankAndUnknown(t *testing.T) {
	stub, printed := runWithInput(t, "\n   \nbogus\nexit\n")
	require.Empty(t, stub.calls)
	require.Contains(t, printed, "Unknown command: bogus")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	stub, _ := runWithInput(t, "status")
	require.Equal(t, []string{"status"}, stub.calls)
}
