// SPDX-License-Identifier: GPL-2.0-or-later

// Package console runs editor scripts: lines of commands separated by
// newlines or semicolons.
package console

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Func func(a Arguments) error

// help is shown by cmdlist.
type command struct {
	fn   Func
	help string
}

// Commands maps lower case names to functions.
type Commands struct {
	cmds map[string]command
}

func NewCommands() *Commands {
	return &Commands{cmds: make(map[string]command)}
}

func (c *Commands) Add(name, help string, f Func) error {
	ln := strings.ToLower(name)
	if _, ok := c.cmds[ln]; ok {
		return errors.Errorf("command %s already defined", ln)
	}
	c.cmds[ln] = command{fn: f, help: help}
	return nil
}

func (c *Commands) Must(name, help string, f Func) {
	if err := c.Add(name, help, f); err != nil {
		panic(err.Error())
	}
}

func (c *Commands) Exists(name string) bool {
	_, ok := c.cmds[strings.ToLower(name)]
	return ok
}

func (c *Commands) Help(name string) string {
	return c.cmds[strings.ToLower(name)].help
}

// List returns the sorted names starting with prefix.
func (c *Commands) List(prefix string) []string {
	r := make([]string, 0, len(c.cmds))
	for n := range c.cmds {
		if strings.HasPrefix(n, prefix) {
			r = append(r, n)
		}
	}
	sort.Strings(r)
	return r
}

// Execute runs the command named by the first argument. It reports false
// if there is no such command.
func (c *Commands) Execute(a Arguments) (bool, error) {
	n := a.Args()
	if len(n) == 0 {
		return false, nil
	}
	name := strings.ToLower(n[0].String())
	cmd, ok := c.cmds[name]
	if !ok {
		return false, nil
	}
	if err := cmd.fn(a); err != nil {
		return true, errors.Wrap(err, name)
	}
	return true, nil
}
