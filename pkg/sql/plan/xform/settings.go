// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"io/ioutil"

	"github.com/cockroachdb/errors"
	yaml "gopkg.in/yaml.v2"
)

// DefaultMaxIterations is the default bound on the number of times the
// optimizer runs its pass sequence.
const DefaultMaxIterations = 8

// Settings configure an Optimizer.
type Settings struct {
	// MaxIterations bounds the number of times the pass sequence is run while
	// looking for a fixpoint.
	MaxIterations int `yaml:"max_iterations"`
	// Parallel allows passes to rewrite the inputs of a join concurrently.
	Parallel bool `yaml:"parallel"`
	// DisabledPasses lists passes, by name, that are not run.
	DisabledPasses []string `yaml:"disabled_passes"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{MaxIterations: DefaultMaxIterations}
}

// ParseSettings decodes YAML settings. Fields that are not set keep their
// default values.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parsing optimizer settings")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads YAML settings from a file.
func LoadSettings(path string) (Settings, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "reading optimizer settings %s", path)
	}
	return ParseSettings(data)
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.MaxIterations < 1 {
		return errors.Newf("max_iterations must be at least 1, got %d", s.MaxIterations)
	}
	return nil
}

// PassEnabled returns true unless the named pass is disabled.
func (s *Settings) PassEnabled(name string) bool {
	for _, d := range s.DisabledPasses {
		if d == name {
			return false
		}
	}
	return true
}
