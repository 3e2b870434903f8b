// SPDX-License-Identifier: GPL-2.0-or-later

// Package history keeps the list of recently opened documents.
package history

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// defaultMax limits the list so the file does not grow indefinitely
	defaultMax = 10
)

// History is ordered from the most recent entry to the oldest.
type History struct {
	entries []string
	max     int
}

func New(max int) *History {
	if max <= 0 {
		max = defaultMax
	}
	return &History{max: max}
}

func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

func (h *History) Len() int {
	return len(h.entries)
}

// Add moves path to the front, dropping the oldest entry if needed.
func (h *History) Add(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	h.Remove(path)
	h.entries = append([]string{path}, h.entries...)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
}

func (h *History) Remove(path string) bool {
	for i, e := range h.entries {
		if e == path {
			h.entries = append(h.entries[:i:i], h.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Load replaces the entries with the ones stored in file. A missing file
// is an empty history.
func (h *History) Load(file string) error {
	in, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read history")
	}
	data := &structpb.ListValue{}
	if err := proto.Unmarshal(in, data); err != nil {
		return errors.Wrap(err, "failed to decode history")
	}
	h.entries = nil
	for _, v := range data.GetValues() {
		if s := v.GetStringValue(); s != "" && len(h.entries) < h.max {
			h.entries = append(h.entries, s)
		}
	}
	return nil
}

func (h *History) Save(file string) error {
	data := &structpb.ListValue{}
	for _, e := range h.entries {
		data.Values = append(data.Values, structpb.NewStringValue(e))
	}
	out, err := proto.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode history")
	}
	if err := os.WriteFile(file, out, 0660); err != nil {
		return errors.Wrap(err, "failed to write history file")
	}
	return nil
}
