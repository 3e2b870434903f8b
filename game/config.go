// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"quakeed/math/vec"
)

type FileSystemConfig struct {
	SearchPath    string `yaml:"searchpath"`
	PackageFormat string `yaml:"packageformat"`
}

type TextureConfig struct {
	// Package is "file" for texture collections like wads.
	Package   string   `yaml:"package"`
	Format    string   `yaml:"format"`
	Attribute string   `yaml:"attribute"`
	Palette   string   `yaml:"palette"`
	Builtin   []string `yaml:"builtin"`
}

type EntityConfig struct {
	Definitions  []string   `yaml:"definitions"`
	DefaultColor [3]float32 `yaml:"defaultcolor"`
	ModelFormats []string   `yaml:"modelformats"`
}

// Config describes one game.
type Config struct {
	Name         string           `yaml:"name"`
	FileFormats  []string         `yaml:"fileformats"`
	FileSystem   FileSystemConfig `yaml:"filesystem"`
	Textures     TextureConfig    `yaml:"textures"`
	Entities     EntityConfig     `yaml:"entities"`
	ModAttribute string           `yaml:"modattribute"`
	DefAttribute string           `yaml:"defattribute"`
	// Bounds is the extent of the world on every axis.
	Bounds [2]float32 `yaml:"bounds"`
}

// ParseConfig decodes a YAML game configuration. Unknown keys are errors.
func ParseConfig(name string, data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	c := &Config{}
	if err := dec.Decode(c); err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	if err := c.validate(); err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return c, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("missing name")
	}
	if len(c.FileFormats) == 0 {
		return errors.New("missing fileformats")
	}
	if c.Textures.Package != "" && c.Textures.Package != "file" {
		return errors.Errorf("unsupported texture package %q", c.Textures.Package)
	}
	if c.Textures.Format != "" && c.Textures.Format != "wad" {
		return errors.Errorf("unsupported texture format %q", c.Textures.Format)
	}
	if c.Bounds[0] >= c.Bounds[1] {
		if c.Bounds != [2]float32{} {
			return errors.Errorf("bad bounds %v", c.Bounds)
		}
		c.Bounds = [2]float32{-16384, 16384}
	}
	return nil
}

// WorldBounds is the box objects of this game have to fit in.
func (c *Config) WorldBounds() vec.BBox3 {
	return vec.Cube(c.Bounds[0], c.Bounds[1])
}

// SupportsFormat reports whether format is one of the file formats.
func (c *Config) SupportsFormat(format string) bool {
	for _, f := range c.FileFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
