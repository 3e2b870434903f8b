// SPDX-License-Identifier: GPL-2.0-or-later

// Package prefs holds named editor preferences and persists them.
package prefs

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"quakeed/notify"
)

const (
	TextureLock = "Editor/TextureLock"
	RecentFiles = "Editor/RecentFiles"
	// gamesPrefix is followed by the game name and "/Path".
	gamesPrefix = "Games/"
)

// GamePathKey is the key of the game directory preference of game.
func GamePathKey(game string) string {
	return gamesPrefix + game + "/Path"
}

// GameOfPathKey returns the game name if key is a game path key.
func GameOfPathKey(key string) (string, bool) {
	if !strings.HasPrefix(key, gamesPrefix) || !strings.HasSuffix(key, "/Path") {
		return "", false
	}
	g := strings.TrimSuffix(strings.TrimPrefix(key, gamesPrefix), "/Path")
	return g, g != ""
}

type Preferences struct {
	values map[string]*Value

	// DidChange is called with the key of every changed value.
	DidChange notify.Notifier[string]
}

func New() *Preferences {
	p := &Preferences{values: make(map[string]*Value)}
	p.MustRegister(TextureLock, "1", Archive)
	p.MustRegister(RecentFiles, "10", Archive)
	return p
}

// Register creates a value. Values loaded before registration keep their
// loaded string.
func (p *Preferences) Register(name, def string, flags Flag) (*Value, error) {
	if v, ok := p.values[name]; ok {
		if !v.UserDefined() {
			return nil, errors.Errorf("preference %s already registered", name)
		}
		v.flags = flags
		v.defaultValue = def
		return v, nil
	}
	v := &Value{owner: p, name: name, flags: flags, defaultValue: def}
	v.set(def)
	p.values[name] = v
	return v, nil
}

func (p *Preferences) MustRegister(name, def string, flags Flag) *Value {
	v, err := p.Register(name, def, flags)
	if err != nil {
		panic(err)
	}
	return v
}

func (p *Preferences) Get(name string) (*Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// String returns the value of name or "" if there is none.
func (p *Preferences) String(name string) string {
	if v, ok := p.values[name]; ok {
		return v.String()
	}
	return ""
}

// Set changes name, creating an archived user defined value if needed.
func (p *Preferences) Set(name, value string) {
	v, ok := p.values[name]
	if !ok {
		v = &Value{owner: p, name: name, flags: Archive | UserDefined}
		p.values[name] = v
	}
	v.SetByString(value)
}

// All returns the values sorted by name.
func (p *Preferences) All() []*Value {
	r := make([]*Value, 0, len(p.values))
	for _, v := range p.values {
		r = append(r, v)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].name < r[j].name })
	return r
}

// Marshal encodes all archived values that differ from their default.
func (p *Preferences) Marshal() ([]byte, error) {
	m := map[string]interface{}{}
	for _, v := range p.values {
		if v.Archive() && (v.UserDefined() || v.stringValue != v.defaultValue) {
			m[v.name] = v.stringValue
		}
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode preferences")
	}
	return proto.Marshal(s)
}

// Unmarshal applies encoded values. Unknown keys become user defined.
func (p *Preferences) Unmarshal(data []byte) error {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return errors.Wrap(err, "decode preferences")
	}
	for k, f := range s.GetFields() {
		p.Set(k, f.GetStringValue())
	}
	return nil
}

// Load reads path. A missing file is not an error.
func (p *Preferences) Load(path string) error {
	in, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read preferences")
	}
	return p.Unmarshal(in)
}

func (p *Preferences) Save(path string) error {
	out, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0660); err != nil {
		return errors.Wrap(err, "write preferences")
	}
	return nil
}
