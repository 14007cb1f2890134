// Package shell provides an interactive prompt for exploring a normalized
// configuration: sections, fields, group agent configurations and reloads.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/wazuh/ossec-hids/internal/formatting"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/normalize"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

const subsystem = "Shell"

const commandExecutionTimeout = time.Minute

// Source is the part of manager.Manager the shell queries.
type Source interface {
	Document() (*normalize.Document, []normalize.Warning, error)
	AgentConf(req manager.AgentConfRequest) (*manager.Page, error)
	Groups() ([]string, error)
}

// Shell is an interactive read-eval-print loop over a Source.
type Shell struct {
	source    Source
	out       io.Writer
	options   formatting.Options
	formatter formatting.Formatter
	registry  *Registry

	mu  sync.Mutex
	doc *normalize.Document
}

// New creates a Shell writing results to out in the given format.
func New(src Source, out io.Writer, options formatting.Options) (*Shell, error) {
	if options.Format == formatting.FormatTemplate {
		return nil, errors.New("template output is not available in the shell")
	}
	f, err := formatting.New(options)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		source:    src,
		out:       out,
		options:   options,
		formatter: f,
		registry:  NewRegistry(),
	}
	s.registry.Register("sections", &sectionsCommand{s})
	s.registry.Register("get", &getCommand{s})
	s.registry.Register("agent", &agentCommand{s})
	s.registry.Register("groups", &groupsCommand{s})
	s.registry.Register("reload", &reloadCommand{s})
	s.registry.Register("format", &formatCommand{s})
	s.registry.Register("help", &helpCommand{s})
	s.registry.Register("exit", exitCommand{})
	return s, nil
}

// document returns the cached ossec.conf, loading it on first use.
func (s *Shell) document() (*normalize.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return s.doc, nil
	}
	doc, warnings, err := s.source.Document()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(s.out, "warning: %s\n", w.Message)
	}
	s.doc = doc
	return doc, nil
}

func (s *Shell) print(v any) error {
	return s.formatter.Format(s.out, v)
}

func (s *Shell) println(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Execute runs one input line. It reports whether the session should end.
func (s *Shell) Execute(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, nil
	}

	command, exists := s.registry.Get(strings.ToLower(parts[0]))
	if !exists {
		return false, fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	ctx, cancel := context.WithTimeout(ctx, commandExecutionTimeout)
	defer cancel()

	err := command.Execute(ctx, parts[1:])
	if errors.Is(err, errExit) {
		return true, nil
	}
	return false, err
}

// Run reads commands until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "ossec> ",
		HistoryFile:       filepath.Join(os.TempDir(), ".ossec_conf_history"),
		AutoComplete:      s.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	logging.Info(subsystem, "Type 'help' for available commands. Use TAB for completion.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		done, err := s.Execute(ctx, line)
		if err != nil {
			s.println("Error: %v", err)
		}
		if done {
			return nil
		}
		if line == "reload" {
			rl.Config.AutoComplete = s.completer()
		}
	}
}

// completer completes command names, section names for get and group names for agent.
func (s *Shell) completer() *readline.PrefixCompleter {
	var sections []readline.PrefixCompleterInterface
	if doc, err := s.document(); err == nil {
		for _, name := range doc.Names() {
			sections = append(sections, readline.PcItem(name))
		}
	}

	var groups []readline.PrefixCompleterInterface
	if names, err := s.source.Groups(); err == nil {
		for _, name := range names {
			groups = append(groups, readline.PcItem(name))
		}
	}

	formats := make([]readline.PrefixCompleterInterface, 0, len(formatting.Formats()))
	for _, f := range formatting.Formats() {
		if f != formatting.FormatTemplate {
			formats = append(formats, readline.PcItem(string(f)))
		}
	}

	commands := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range s.registry.List() {
		commands = append(commands, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help", commands...),
		readline.PcItem("sections"),
		readline.PcItem("get", sections...),
		readline.PcItem("agent", groups...),
		readline.PcItem("groups"),
		readline.PcItem("reload"),
		readline.PcItem("format", formats...),
		readline.PcItem("exit"),
	)
}
