package catalog

import (
	"fmt"
	"sync"

	"github.com/avvvet/card-services/internal/comm"
)

// Catalog holds the command definitions registered by the bot.
type Catalog struct {
	mu     sync.RWMutex
	defs   []comm.CommandDefinition
	byName map[string]comm.CommandDefinition
}

func New() *Catalog {
	return &Catalog{byName: map[string]comm.CommandDefinition{}}
}

// Replace swaps in a full definition list. Names must be non-empty and
// unique, within commands and within each command's options.
func (c *Catalog) Replace(defs []comm.CommandDefinition) error {
	byName := make(map[string]comm.CommandDefinition, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("command name cannot be empty")
		}
		if _, dup := byName[d.Name]; dup {
			return fmt.Errorf("duplicate command name: %s", d.Name)
		}
		seen := map[string]bool{}
		for _, o := range d.Options {
			if o.Name == "" || seen[o.Name] {
				return fmt.Errorf("invalid option %q on command %s", o.Name, d.Name)
			}
			seen[o.Name] = true
		}
		byName[d.Name] = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = append([]comm.CommandDefinition(nil), defs...)
	c.byName = byName
	return nil
}

func (c *Catalog) List() []comm.CommandDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]comm.CommandDefinition(nil), c.defs...)
}

func (c *Catalog) Lookup(name string) (comm.CommandDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byName[name]
	return d, ok
}

// Check rejects unknown commands and undeclared options. Required options
// are left to the bot.
func (c *Catalog) Check(i *comm.Interaction) error {
	d, ok := c.Lookup(i.Command)
	if !ok {
		return fmt.Errorf("unknown command: %s", i.Command)
	}

	declared := make(map[string]bool, len(d.Options))
	for _, o := range d.Options {
		declared[o.Name] = true
	}
	for name := range i.Options {
		if !declared[name] {
			return fmt.Errorf("unknown option %s for command %s", name, i.Command)
		}
	}
	return nil
}
