// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"strings"
)

var (
	conDebug bool
	newMap   bool
	yes      bool

	format    string
	game      string
	gamePath  string
	gamesDir  string
	mapPath   string
	out       string
	prefsFile string
	recent    string

	execFiles listFlag
	commands  listFlag
	mods      listFlag
)

// listFlag collects every occurrence of a repeated flag.
type listFlag []string

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func init() {
	flag.BoolVar(&conDebug, "condebug", false, "enable debug logging")
	flag.BoolVar(&newMap, "new", false, "create a new map of -game")
	flag.BoolVar(&yes, "y", false, "answer yes to every question")

	flag.StringVar(&format, "format", "", "map format of a new map")
	flag.StringVar(&game, "game", "Quake", "game of new maps and of maps without header")
	flag.StringVar(&gamePath, "gamepath", "", "set the game directory of -game")
	flag.StringVar(&gamesDir, "games", "", "directory with additional game configurations")
	flag.StringVar(&mapPath, "map", "", "map file to open")
	flag.StringVar(&out, "out", "", "save the map to this file when done")
	flag.StringVar(&prefsFile, "prefs", "", "preferences file")
	flag.StringVar(&recent, "recent", "", "recent documents file")

	flag.Var(&execFiles, "exec", "run a script file, may be repeated")
	flag.Var(&commands, "c", "run a script line, may be repeated")
	flag.Var(&mods, "mod", "enable a mod directory on the new map, may be repeated")
}

func ConsoleDebug() bool {
	return conDebug
}

func NewMap() bool {
	return newMap
}

func AssumeYes() bool {
	return yes
}

func Format() string {
	return format
}

func Game() string {
	return game
}

func GamePath() string {
	return gamePath
}

func GamesDirectory() string {
	return gamesDir
}

func Map() string {
	return mapPath
}

func Out() string {
	return out
}

func PreferencesFile() string {
	return prefsFile
}

func RecentFile() string {
	return recent
}

func ExecFiles() []string {
	return execFiles
}

func Commands() []string {
	return commands
}

func Mods() []string {
	return mods
}
