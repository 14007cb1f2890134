package shell

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wazuh/ossec-hids/internal/formatting"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/normalize"
)

// sectionsCommand lists the sections present in the loaded ossec.conf.
type sectionsCommand struct{ s *Shell }

func (c *sectionsCommand) Execute(_ context.Context, _ []string) error {
	doc, err := c.s.document()
	if err != nil {
		return err
	}
	rows := make([]map[string]string, 0, doc.Len())
	for _, name := range doc.Names() {
		rows = append(rows, map[string]string{
			"section": name,
			"policy":  normalize.Lookup(name).Policy.String(),
		})
	}
	return c.s.print(rows)
}

func (c *sectionsCommand) Usage() string       { return "sections" }
func (c *sectionsCommand) Description() string { return "List the sections of ossec.conf" }
func (c *sectionsCommand) Aliases() []string   { return []string{"ls"} }

// getCommand prints a section or a field of one.
type getCommand struct{ s *Shell }

func (c *getCommand) Execute(_ context.Context, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	doc, err := c.s.document()
	if err != nil {
		return err
	}
	var section, field string
	if len(args) > 0 {
		section = args[0]
	}
	if len(args) > 1 {
		field = args[1]
	}
	v, err := doc.Select(section, field)
	if err != nil {
		return err
	}
	return c.s.print(v)
}

func (c *getCommand) Usage() string       { return "get [section] [field]" }
func (c *getCommand) Description() string { return "Show ossec.conf, a section or a field" }
func (c *getCommand) Aliases() []string   { return nil }

// agentCommand prints a page of a group's agent configuration.
type agentCommand struct{ s *Shell }

func (c *agentCommand) Execute(_ context.Context, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	req := manager.AgentConfRequest{Group: args[0], Limit: manager.DefaultLimit}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid offset %q", args[1])
		}
		req.Offset = n
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid limit %q", args[2])
		}
		req.Limit = n
	}
	page, err := c.s.source.AgentConf(req)
	if err != nil {
		return err
	}
	return c.s.print(page)
}

func (c *agentCommand) Usage() string       { return "agent <group> [offset] [limit]" }
func (c *agentCommand) Description() string { return "Show a group's agent configuration" }
func (c *agentCommand) Aliases() []string   { return nil }

// groupsCommand lists the agent groups.
type groupsCommand struct{ s *Shell }

func (c *groupsCommand) Execute(_ context.Context, _ []string) error {
	groups, err := c.s.source.Groups()
	if err != nil {
		return err
	}
	return c.s.print(groups)
}

func (c *groupsCommand) Usage() string       { return "groups" }
func (c *groupsCommand) Description() string { return "List the agent groups" }
func (c *groupsCommand) Aliases() []string   { return nil }

// reloadCommand drops the cached ossec.conf and loads it again.
type reloadCommand struct{ s *Shell }

func (c *reloadCommand) Execute(_ context.Context, _ []string) error {
	c.s.mu.Lock()
	c.s.doc = nil
	c.s.mu.Unlock()

	doc, err := c.s.document()
	if err != nil {
		return err
	}
	c.s.println("Reloaded %d sections", doc.Len())
	return nil
}

func (c *reloadCommand) Usage() string       { return "reload" }
func (c *reloadCommand) Description() string { return "Reload ossec.conf from disk" }
func (c *reloadCommand) Aliases() []string   { return nil }

// formatCommand switches the output format.
type formatCommand struct{ s *Shell }

func (c *formatCommand) Execute(_ context.Context, args []string) error {
	if len(args) != 1 {
		c.s.println("Current format: %s", c.s.options.Format)
		return nil
	}
	format, err := formatting.ParseFormat(args[0])
	if err != nil {
		return err
	}
	options := c.s.options
	options.Format = format
	f, err := formatting.New(options)
	if err != nil {
		return err
	}
	c.s.options = options
	c.s.formatter = f
	return nil
}

func (c *formatCommand) Usage() string       { return "format [text|json|yaml|table|protojson]" }
func (c *formatCommand) Description() string { return "Show or change the output format" }
func (c *formatCommand) Aliases() []string   { return nil }

// helpCommand shows available commands and usage information.
type helpCommand struct{ s *Shell }

func (c *helpCommand) Execute(_ context.Context, args []string) error {
	if len(args) == 0 {
		c.s.println("Available commands:")
		for _, name := range c.s.registry.List() {
			cmd, _ := c.s.registry.Get(name)
			c.s.println("  %-32s - %s", cmd.Usage(), cmd.Description())
		}
		return nil
	}

	cmd, exists := c.s.registry.Get(args[0])
	if !exists {
		c.s.println("Unknown command: %s", args[0])
		return nil
	}
	c.s.println("Usage: %s", cmd.Usage())
	c.s.println("Description: %s", cmd.Description())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		c.s.println("Aliases: %v", aliases)
	}
	return nil
}

func (c *helpCommand) Usage() string       { return "help [command]" }
func (c *helpCommand) Description() string { return "Show help information for commands" }
func (c *helpCommand) Aliases() []string   { return []string{"?"} }

// exitCommand ends the session.
type exitCommand struct{}

func (exitCommand) Execute(_ context.Context, _ []string) error { return errExit }
func (exitCommand) Usage() string                               { return "exit" }
func (exitCommand) Description() string                         { return "Exit the shell" }
func (exitCommand) Aliases() []string                           { return []string{"quit", "q"} }
