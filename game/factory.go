// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"quakeed/mapfile"
	"quakeed/prefs"
)

// ErrUnknownGame is returned for names without a configuration.
var ErrUnknownGame = errors.New("unknown game")

// Factory creates games from the known configurations. Game paths are
// stored in the preferences.
type Factory struct {
	log     zerolog.Logger
	prefs   *prefs.Preferences
	configs map[string]*Config
}

// NewFactory knows the builtin configurations.
func NewFactory(p *prefs.Preferences, log zerolog.Logger) (*Factory, error) {
	f := &Factory{
		log:     log.With().Str("component", "games").Logger(),
		prefs:   p,
		configs: make(map[string]*Config),
	}
	cs, err := builtinConfigs()
	if err != nil {
		return nil, err
	}
	for _, c := range cs {
		f.add(c)
	}
	return f, nil
}

func (f *Factory) add(c *Config) {
	f.configs[strings.ToLower(c.Name)] = c
	f.prefs.Register(GamePathPreference(c.Name), "", prefs.Archive)
}

// LoadConfigs adds every *.yaml configuration in dir. A configuration
// replaces a builtin one of the same name. Broken files are skipped and
// reported.
func (f *Factory) LoadConfigs(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return errors.WithStack(err)
	}
	for _, p := range files {
		b, err := os.ReadFile(p)
		if err != nil {
			f.log.Warn().Err(err).Str("path", p).Msg("skipping game configuration")
			continue
		}
		c, err := ParseConfig(p, b)
		if err != nil {
			f.log.Warn().Err(err).Str("path", p).Msg("skipping game configuration")
			continue
		}
		f.add(c)
	}
	return nil
}

// GameNames returns the names of all known games, sorted.
func (f *Factory) GameNames() []string {
	r := make([]string, 0, len(f.configs))
	for _, c := range f.configs {
		r = append(r, c.Name)
	}
	sort.Strings(r)
	return r
}

func (f *Factory) config(name string) (*Config, error) {
	c, ok := f.configs[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrap(ErrUnknownGame, name)
	}
	return c, nil
}

// GamePathPreference is the preference key holding the directory of game.
func GamePathPreference(game string) string {
	return prefs.GamePathKey(game)
}

// IsGamePathPreference reports whether key is the game path preference
// of any game.
func IsGamePathPreference(key string) bool {
	_, ok := prefs.GameOfPathKey(key)
	return ok
}

// CreateGame returns a new game bound to its configured game path. An
// invalid path yields a RecoverableError which clears the preference.
func (f *Factory) CreateGame(name string) (Game, error) {
	c, err := f.config(name)
	if err != nil {
		return nil, err
	}
	cc := &Config{}
	if err := copier.CopyWithOption(cc, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.WithStack(err)
	}
	g := newQuakeGame(cc, f.log)
	key := GamePathPreference(cc.Name)
	gp := f.prefs.String(key)
	if gp == "" {
		return g, nil
	}
	if err := g.SetGamePath(gp); err != nil {
		return nil, &RecoverableError{
			Err:   errors.Wrapf(err, "game path of %s", cc.Name),
			Query: "The game path of " + cc.Name + " is invalid. Clear it?",
			Recover: func() error {
				f.prefs.Set(key, "")
				return nil
			},
		}
	}
	return g, nil
}

// DetectGame reads the header of the map at path. It returns the game and
// the file format, either may be empty if the header does not name it.
func (f *Factory) DetectGame(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", notFound(path)
		}
		return "", "", errors.WithStack(err)
	}
	h := mapfile.ReadHeader(b)
	game := h.Game
	if game != "" {
		if c, err := f.config(game); err == nil {
			game = c.Name
		} else {
			game = ""
		}
	}
	return game, h.Format, nil
}
