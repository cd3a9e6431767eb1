package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zero-day-ai/heapsim/internal/observability"
	"github.com/zero-day-ai/heapsim/internal/session"
	"github.com/zero-day-ai/heapsim/internal/spray"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// newSession builds a session wired to the CLI logger.
func newSession() *session.Session {
	s := session.New()
	if logger != nil {
		s.SetLogger(logger)
	}
	return s
}

// sessionFromScript builds a session and, when path is non-empty, replays
// the script into it. One-shot commands use this to set up heap state.
func sessionFromScript(ctx context.Context, path string) (*session.Session, error) {
	s := newSession()
	if path == "" {
		return s, nil
	}
	if err := replayScript(ctx, s, path, io.Discard); err != nil {
		return nil, err
	}
	return s, nil
}

// replayScript executes every line of a script file against the session.
// Blank lines and #-comments are skipped. View output goes to out.
func replayScript(ctx context.Context, s *session.Session, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return types.WrapError(types.CONFIG_LOAD_FAILED, "failed to open script", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := execLine(ctx, out, s, line)
		if err != nil {
			return fmt.Errorf("script line %d (%q): %w", lineNo, line, err)
		}
		if quit {
			break
		}
	}
	return scanner.Err()
}

// execLine parses and executes one console command. It returns quit=true
// when the command asks to end the session.
func execLine(ctx context.Context, out io.Writer, s *session.Session, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "alloc":
		return false, execAlloc(out, s, args)
	case "free":
		return false, execFree(out, s, args)
	case "bug":
		return false, execBug(ctx, out, s, args)
	case "spray":
		return false, execSpray(out, s, args)
	case "strategy":
		return false, execStrategy(ctx, out, s, args)
	case "template":
		return false, execTemplate(out, s, args)
	case "exploitability":
		return false, execExploitability(out, s, args)
	case "mitigations":
		return false, execMitigations(out, s, args)
	case "heap":
		printHeap(out, s)
		return false, nil
	case "stats", "buckets":
		printStats(out, s)
		return false, nil
	case "bugs":
		printBugList(out, s)
		return false, nil
	case "timeline":
		printTimeline(out, s)
		return false, nil
	case "reset":
		s.Reset()
		fmt.Fprintln(out, "session reset")
		return false, nil
	case "help":
		printConsoleHelp(out)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func execAlloc(out io.Writer, s *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: alloc SIZE TYPE")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}
	typeName := args[1]

	id := s.Tracker.RecordAllocation(size, typeName, nil)
	rec, _ := s.Tracker.GetAllocation(id)
	fmt.Fprintf(out, "allocated id=%d type=%s size=%d bucket=%d\n", id, typeName, size, rec.Bucket)
	return nil
}

func execFree(out io.Writer, s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: free ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	if err := s.Tracker.RecordDeallocation(id); err != nil {
		return err
	}
	fmt.Fprintf(out, "freed id=%d\n", id)
	return nil
}

func execBug(ctx context.Context, out io.Writer, s *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: bug (overflow ID BYTES | uaf ID | confusion ID TYPE)")
	}
	kind := strings.ToLower(args[0])
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[1], err)
	}

	_, span := observability.StartSpan(ctx, "bug."+kind, s.ID.String())
	defer span.End()

	switch kind {
	case "overflow":
		if len(args) < 3 {
			return fmt.Errorf("usage: bug overflow ID BYTES")
		}
		size, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid overflow size %q: %w", args[2], err)
		}
		rec, err := s.Bugs.SimulateOverflow(id, size)
		if err != nil {
			return err
		}
		printBugRecord(out, rec)
	case "uaf", "use_after_free":
		rec, err := s.Bugs.SimulateUseAfterFree(id)
		if err != nil {
			return err
		}
		printBugRecord(out, rec)
	case "confusion", "type_confusion":
		if len(args) < 3 {
			return fmt.Errorf("usage: bug confusion ID TYPE")
		}
		rec, err := s.Bugs.SimulateTypeConfusion(id, args[2])
		if err != nil {
			return err
		}
		printBugRecord(out, rec)
	default:
		return fmt.Errorf("unknown bug kind %q (overflow, uaf, confusion)", kind)
	}
	return nil
}

func execSpray(out io.Writer, s *session.Session, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: spray COUNT SIZE TYPE [PATTERN]")
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", args[0], err)
	}
	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[1], err)
	}
	scfg := spray.Config{Count: count, Size: size, Type: args[2]}
	if len(args) > 3 {
		scfg.Pattern = spray.Pattern(args[3])
	}

	result, err := spray.New(s.Tracker).Run(scfg)
	if err != nil {
		return err
	}
	printSprayResult(out, result)
	return nil
}

func execStrategy(ctx context.Context, out io.Writer, s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: strategy BUG_ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bug id %q: %w", args[0], err)
	}

	_, span := observability.StartSpan(ctx, "strategy.generate", s.ID.String())
	defer span.End()

	plan, err := s.Strategy.GenerateStrategyForBug(id)
	if err != nil {
		return err
	}
	printPlan(out, plan)
	return nil
}

func execTemplate(out io.Writer, s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: template BUG_ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bug id %q: %w", args[0], err)
	}
	tmpl, err := s.Strategy.GenerateExploitTemplate(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tmpl)
	return nil
}

func execExploitability(out io.Writer, s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: exploitability BUG_ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bug id %q: %w", args[0], err)
	}
	assessment, err := s.Bugs.AssessExploitability(id)
	if err != nil {
		return err
	}
	printExploitability(out, assessment)
	return nil
}

func execMitigations(out io.Writer, s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mitigations BUG_ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bug id %q: %w", args[0], err)
	}
	mitigations, err := s.Bugs.GenerateMitigations(id)
	if err != nil {
		return err
	}
	printMitigations(out, mitigations)
	return nil
}

func printConsoleHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  alloc SIZE TYPE              Record an allocation
  free ID                      Record a deallocation
  bug overflow ID BYTES        Simulate a heap overflow from allocation ID
  bug uaf ID                   Simulate a use-after-free of freed allocation ID
  bug confusion ID TYPE        Simulate type confusion of allocation ID as TYPE
  spray COUNT SIZE TYPE [PAT]  Bulk-allocate (pattern: uniform, ramp, alternating)
  strategy BUG_ID              Generate an exploitation strategy for a bug
  template BUG_ID              Render the exploit pseudo-code template
  exploitability BUG_ID        Score exploitability of a bug
  mitigations BUG_ID           List mitigations for a bug
  heap                         Show per-bucket allocation layout
  stats                        Show bucket and type statistics
  bugs                         List simulated bugs
  timeline                     Show the event timeline
  reset                        Clear all session state
  help                         Show this help
  quit                         Exit the console
`)
}
