// SPDX-License-Identifier: GPL-2.0-or-later

// Package editor opens and creates documents on behalf of the user and
// keeps the list of recent documents.
package editor

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"quakeed/camera"
	"quakeed/document"
	"quakeed/game"
	"quakeed/history"
	"quakeed/prefs"
)

// Prompter asks the user questions. It is called synchronously.
type Prompter interface {
	// Confirm returns true if the user agrees to message.
	Confirm(message string) bool
	// ChooseGame asks for the game of a document whose header names none.
	ChooseGame(games []string) (string, bool)
}

var ErrCanceled = errors.New("canceled by user")

type Editor struct {
	log      zerolog.Logger
	prefs    *prefs.Preferences
	factory  *game.Factory
	prompter Prompter
	recent   *history.History
	doc      *document.Document
	camera   *camera.Camera

	// recovering is set while an operation is retried after recovery so
	// it is not retried again.
	recovering bool
}

func New(p *prefs.Preferences, f *game.Factory, pr Prompter, log zerolog.Logger) *Editor {
	max := 0
	if v, ok := p.Get(prefs.RecentFiles); ok {
		max = int(v.Value())
	}
	return &Editor{
		log:      log.With().Str("component", "editor").Logger(),
		prefs:    p,
		factory:  f,
		prompter: pr,
		recent:   history.New(max),
		camera:   camera.New(),
	}
}

// Document is the open document or nil.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Camera is the view used to pick by viewport coordinates.
func (e *Editor) Camera() *camera.Camera {
	return e.camera
}

func (e *Editor) Factory() *game.Factory {
	return e.factory
}

func (e *Editor) Recent() *history.History {
	return e.recent
}

// Close closes the open document.
func (e *Editor) Close() {
	if e.doc != nil {
		e.doc.Close()
		e.doc = nil
	}
}

// NewDocument replaces the open document with an empty map of gameName.
func (e *Editor) NewDocument(gameName, format string) error {
	err := e.newDocument(gameName, format)
	if r, ok := game.AsRecoverable(err); ok {
		return e.recover(r, func() error { return e.newDocument(gameName, format) })
	}
	return err
}

func (e *Editor) newDocument(gameName, format string) error {
	g, err := e.factory.CreateGame(gameName)
	if err != nil {
		return err
	}
	d := document.New(e.prefs, e.log)
	d.NewDocument(g.WorldBounds(), g, format)
	e.replace(d)
	return nil
}

// OpenDocument replaces the open document with the map at path. The game
// is taken from the map header or asked for. A missing file is dropped
// from the recent documents.
func (e *Editor) OpenDocument(path string) error {
	err := e.openDocument(path, "")
	if r, ok := game.AsRecoverable(err); ok {
		err = e.recover(r, func() error { return e.openDocument(path, "") })
	}
	return e.opened(path, err)
}

// OpenDocumentWithGame is OpenDocument for a map of a known game.
func (e *Editor) OpenDocumentWithGame(path, gameName string) error {
	err := e.openDocument(path, gameName)
	if r, ok := game.AsRecoverable(err); ok {
		err = e.recover(r, func() error { return e.openDocument(path, gameName) })
	}
	return e.opened(path, err)
}

func (e *Editor) opened(path string, err error) error {
	if abs, aerr := filepath.Abs(path); aerr == nil {
		path = abs
	}
	switch {
	case err == nil:
		e.recent.Add(path)
	case game.IsNotFound(err):
		e.recent.Remove(path)
	}
	return err
}

func (e *Editor) openDocument(path, gameName string) error {
	if gameName == "" {
		name, _, err := e.factory.DetectGame(path)
		if err != nil {
			return err
		}
		gameName = name
	}
	if gameName == "" {
		name, ok := e.prompter.ChooseGame(e.factory.GameNames())
		if !ok {
			return ErrCanceled
		}
		gameName = name
	}
	g, err := e.factory.CreateGame(gameName)
	if err != nil {
		return err
	}
	d := document.New(e.prefs, e.log)
	if err := d.OpenDocument(g.WorldBounds(), g, path); err != nil {
		d.Close()
		return err
	}
	e.replace(d)
	return nil
}

func (e *Editor) replace(d *document.Document) {
	e.Close()
	e.doc = d
}

// recover asks whether r should be recovered from and retries op once.
func (e *Editor) recover(r *game.RecoverableError, op func() error) error {
	if e.recovering {
		return r
	}
	if !e.prompter.Confirm(r.Error() + "\n\n" + r.Query) {
		return r
	}
	if err := r.Recover(); err != nil {
		return errors.Wrap(err, "recover")
	}
	e.log.Info().Err(r.Err).Msg("recovered, retrying")
	e.recovering = true
	defer func() { e.recovering = false }()
	return op()
}

// LoadRecent reads the recent documents from file.
func (e *Editor) LoadRecent(file string) error {
	return e.recent.Load(file)
}

func (e *Editor) SaveRecent(file string) error {
	return e.recent.Save(file)
}
