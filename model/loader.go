// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
)

var (
	mutex   sync.RWMutex
	loaders = make(map[uint32]LoadFunc)
)

type LoadFunc func(name string, data []byte) (Model, error)

// Register makes a loader available for files starting with magic.
func Register(magic uint32, f LoadFunc) {
	mutex.Lock()
	defer mutex.Unlock()
	loaders[magic] = f
}

// Load picks the loader by the first four bytes of data.
func Load(name string, data []byte) (Model, error) {
	if len(data) < 4 {
		return nil, errors.Errorf("file %s is too short", name)
	}
	magic := binary.LittleEndian.Uint32(data)
	mutex.RLock()
	f, ok := loaders[magic]
	mutex.RUnlock()
	if !ok {
		return nil, errors.Errorf("file %s has an unknown file format", name)
	}
	return f(name, data)
}
