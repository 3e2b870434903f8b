// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"embed"
	"path"
	"strings"

	"github.com/pkg/errors"
)

//go:embed builtin
var builtinFiles embed.FS

// builtinPrefix marks paths of files compiled into the editor.
const builtinPrefix = "builtin:"

func isBuiltin(p string) bool {
	return strings.HasPrefix(p, builtinPrefix)
}

func readBuiltin(p string) ([]byte, error) {
	name := path.Join("builtin", strings.TrimPrefix(p, builtinPrefix))
	b, err := builtinFiles.ReadFile(name)
	if err != nil {
		return nil, notFound(p)
	}
	return b, nil
}

// builtinConfigs parses all configurations compiled into the editor.
func builtinConfigs() ([]*Config, error) {
	entries, err := builtinFiles.ReadDir("builtin")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var r []*Config
	for _, e := range entries {
		if path.Ext(e.Name()) != ".yaml" {
			continue
		}
		b, err := builtinFiles.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		c, err := ParseConfig(builtinPrefix+e.Name(), b)
		if err != nil {
			return nil, err
		}
		r = append(r, c)
	}
	return r, nil
}
