// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"quakeed/commandline"
	"quakeed/conlog"
	"quakeed/console"
	"quakeed/editor"
	"quakeed/game"
	"quakeed/prefs"
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		conlog.Errorf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	conlog.SetDebug(commandline.ConsoleDebug())
	log := conlog.Logger()

	p := prefs.New()
	if f := commandline.PreferencesFile(); f != "" {
		if err := p.Load(f); err != nil {
			return err
		}
	}
	factory, err := game.NewFactory(p, log)
	if err != nil {
		return err
	}
	if dir := commandline.GamesDirectory(); dir != "" {
		if err := factory.LoadConfigs(dir); err != nil {
			return err
		}
	}
	if gp := commandline.GamePath(); gp != "" {
		p.Set(game.GamePathPreference(commandline.Game()), gp)
	}

	pr := &prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout, yes: commandline.AssumeYes(), fallback: commandline.Game()}
	e := editor.New(p, factory, pr, log)
	defer e.Close()
	if f := commandline.RecentFile(); f != "" {
		if err := e.LoadRecent(f); err != nil {
			log.Warn().Err(err).Msg("could not load recent documents")
		}
	}

	if err := openInitial(e); err != nil {
		return err
	}
	if err := runScripts(e, log); err != nil {
		return err
	}

	if d := e.Document(); d != nil {
		if o := commandline.Out(); o != "" {
			if err := d.SaveDocumentAs(o); err != nil {
				return err
			}
			e.Recent().Add(o)
			conlog.Printf("saved %s", o)
		}
	}

	if f := commandline.RecentFile(); f != "" {
		if err := e.SaveRecent(f); err != nil {
			log.Warn().Err(err).Msg("could not save recent documents")
		}
	}
	if f := commandline.PreferencesFile(); f != "" {
		return p.Save(f)
	}
	return nil
}

func openInitial(e *editor.Editor) error {
	switch {
	case commandline.Map() != "":
		if err := e.OpenDocument(commandline.Map()); err != nil {
			return errors.Wrapf(err, "open %s", commandline.Map())
		}
	case commandline.NewMap():
		if err := e.NewDocument(commandline.Game(), commandline.Format()); err != nil {
			return err
		}
		if mods := commandline.Mods(); len(mods) > 0 {
			if err := e.Document().SetMods(mods); err != nil {
				return err
			}
		}
	default:
		return nil
	}
	d := e.Document()
	conlog.Printf("%s: %d entities, %d brushes (%s)", d.Filename(), len(d.Map().Entities()), len(d.Map().Brushes()), d.Game().Name())
	return nil
}

func runScripts(e *editor.Editor, log zerolog.Logger) error {
	cmds := console.NewCommands()
	e.RegisterCommands(cmds, os.Stdout)
	b := console.NewBuffer(cmds, log)
	for _, f := range commandline.ExecFiles() {
		data, err := os.ReadFile(f)
		if err != nil {
			return errors.Wrap(err, "exec")
		}
		b.AddText(string(data) + "\n")
	}
	for _, c := range commandline.Commands() {
		b.AddText(c + "\n")
	}
	for b.Pending() {
		if err := b.Execute(); err != nil {
			return err
		}
	}
	return nil
}

// prompter asks on the terminal.
type prompter struct {
	in       *bufio.Reader
	out      *os.File
	yes      bool
	fallback string
}

func (p *prompter) Confirm(msg string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", msg)
	if p.yes {
		fmt.Fprintln(p.out, "y")
		return true
	}
	l, _ := p.in.ReadString('\n')
	return len(l) > 0 && (l[0] == 'y' || l[0] == 'Y')
}

func (p *prompter) ChooseGame(games []string) (string, bool) {
	if p.yes || p.fallback != "" {
		return p.fallback, p.fallback != ""
	}
	fmt.Fprintf(p.out, "game of the map %v: ", games)
	l, err := p.in.ReadString('\n')
	if err != nil && l == "" {
		return "", false
	}
	for len(l) > 0 && (l[len(l)-1] == '\n' || l[len(l)-1] == '\r') {
		l = l[:len(l)-1]
	}
	return l, l != ""
}
