// Package console runs an interactive filter session against one store.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/internal/announce"
	"github.com/huangsam/casewatch/internal/assistant"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/internal/outwriter"
	"github.com/huangsam/casewatch/schema"
	"golang.org/x/term"
)

// Prompt is printed before each command in interactive mode.
const Prompt = "casewatch> "

// ErrQuit is returned by Execute when the session should end.
var ErrQuit = errors.New("quit")

// Session reads filter commands and re-renders the store view after each change.
type Session struct {
	store       *core.Store
	out         io.Writer
	cfg         *contract.Config
	assistant   *assistant.Assistant
	announcer   *announce.Announcer
	interactive bool
}

// New creates a session on store writing to out. Every store change is announced on out.
func New(store *core.Store, out io.Writer, cfg *contract.Config, interactive bool) *Session {
	return &Session{
		store:       store,
		out:         out,
		cfg:         cfg,
		assistant:   assistant.New(cfg.AnomalyThreshold),
		announcer:   announce.Attach(store, out),
		interactive: interactive,
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Close detaches the session from the store.
func (s *Session) Close() {
	s.announcer.Detach()
}

// Run executes commands read from in until quit, EOF or cancellation.
// Command errors are printed and the session continues.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	if s.interactive {
		s.printf("Session on %s (%s). Type \"help\" for commands.\n", s.store.View().Title, s.store.View().DateRange.Full)
	}
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			s.printf("%s", Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := s.Execute(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.printf("Error: %v\n", err)
		}
	}
}

// Execute runs one command line.
func (s *Session) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "exit", "q":
		return ErrQuit
	case "help", "?":
		s.printf("%s", helpText)
		return nil
	case "view", "show-view", "table":
		return outwriter.WriteViewResults(s.out, s.store.View(), s.cfg)
	case "range":
		switch len(args) {
		case 2:
			return s.setRange(args[0], args[1])
		case 4:
			return s.setRange(args[0]+" "+args[1], args[2]+" "+args[3])
		default:
			return errors.New("usage: range <start> <end>, e.g. range Jan 22 Jun 22 or range 0 5")
		}
	case "start":
		return s.setBound(rest, true)
	case "end":
		return s.setBound(rest, false)
	case "reset":
		s.store.ResetDateRange()
		return nil
	case "mode":
		_, err := s.store.SetDisplayMode(schema.DisplayMode(strings.ToLower(rest)))
		return err
	case "show", "hide":
		return s.setVisibility(rest, cmd == "show")
	case "describe":
		v := s.store.View()
		if strings.EqualFold(rest, "summary") {
			s.printf("%s\n", announce.DescribeSummary(v))
		} else {
			s.printf("%s\n", announce.DescribeTrend(v))
		}
		return nil
	case "insights":
		v := s.store.View()
		report := insight.Analyze(v, s.cfg.AnomalyThreshold)
		s.printf("%s\n", announce.DescribeInsights(report.Insights))
		for _, a := range report.Anomalies {
			s.printf("- %s\n", insight.DescribeAnomaly(v, a))
		}
		return nil
	case "summary":
		v := s.store.View()
		s.printf("%s\n", insight.ExecutiveSummary(v, insight.DetectAnomalies(v, s.cfg.AnomalyThreshold)))
		return nil
	case "ask":
		if rest == "" {
			return errors.New("usage: ask <question>")
		}
		s.printf("%s\n", s.assistant.Answer(s.store.View(), rest))
		return nil
	default:
		return fmt.Errorf("unknown command %q (type \"help\")", fields[0])
	}
}

// setRange applies both bounds as given; inverted ranges are rejected by the store.
// Labels with a space may be joined without it ("Jan22") or given as indices.
func (s *Session) setRange(startArg, endArg string) error {
	ds := s.store.Dataset()
	start, err := resolvePeriod(ds, startArg)
	if err != nil {
		return err
	}
	end, err := resolvePeriod(ds, endArg)
	if err != nil {
		return err
	}
	_, err = s.store.SetDateRange(start, end)
	return err
}

// setBound moves one bound. The other bound follows when the window would invert,
// the way a dashboard date picker keeps start <= end.
func (s *Session) setBound(arg string, isStart bool) error {
	if arg == "" {
		return errors.New("usage: start|end <period>")
	}
	idx, err := resolvePeriod(s.store.Dataset(), arg)
	if err != nil {
		return err
	}
	start, end := Clamp(s.store.Params(), idx, isStart)
	_, err = s.store.SetDateRange(start, end)
	return err
}

// Clamp returns the window after moving one bound to idx, pulling the other bound along if needed.
func Clamp(p schema.FilterParameters, idx int, isStart bool) (start, end int) {
	start, end = p.StartIndex, p.EndIndex
	if isStart {
		start = idx
		end = max(end, idx)
	} else {
		end = idx
		start = min(start, idx)
	}
	return start, end
}

func (s *Session) setVisibility(arg string, visible bool) error {
	if arg == "" {
		return errors.New("usage: show|hide <category>|all")
	}
	ds := s.store.Dataset()
	if strings.EqualFold(arg, "all") {
		for _, id := range ds.CategoryIDs() {
			if _, err := s.store.SetCategoryVisibility(id, visible); err != nil {
				return err
			}
		}
		return nil
	}
	id, _ := dataset.ResolveCategory(ds, arg)
	_, err := s.store.SetCategoryVisibility(id, visible)
	return err
}

// resolvePeriod accepts "Jul 21", "jul21" or an index.
func resolvePeriod(ds *schema.Dataset, arg string) (int, error) {
	if idx, err := dataset.ResolvePeriod(ds, arg); err == nil {
		return idx, nil
	}
	compact := strings.ReplaceAll(arg, " ", "")
	for i, p := range ds.Periods {
		if strings.EqualFold(strings.ReplaceAll(p, " ", ""), compact) {
			return i, nil
		}
	}
	return dataset.ResolvePeriod(ds, arg)
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

const helpText = `Commands:
  range <start> <end>   select the window, e.g. range jul21 dec21 or range 0 5
  start <period>        move the start (the end follows if needed)
  end <period>          move the end (the start follows if needed)
  reset                 select every period
  mode counts|percentages
  show <category>|all   show a category
  hide <category>|all   hide a category
  view                  print the current view
  describe [summary]    describe the trend or summary chart
  insights              list insights and anomalies
  summary               print the executive summary
  ask <question>        ask the assistant about the current view
  help                  show this help
  quit                  leave the session
`
