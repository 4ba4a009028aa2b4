package config

import (
	"github.com/oomph-ac/pacer/frequency"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Store holds the current configuration and swaps it atomically on Reload, so that connections pick up a
// new configuration with their next packet.
type Store struct {
	path string
	log  logrus.FieldLogger
	cur  atomic.Pointer[Config]
}

// NewStore loads the configuration at path into a new Store. An empty path uses the default configuration.
func NewStore(path string, log logrus.FieldLogger) (*Store, error) {
	s := &Store{path: path, log: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads the configuration file again. On error the current configuration stays in place.
func (s *Store) Reload() error {
	conf := Default()
	if s.path != "" {
		c, err := Load(s.path)
		if err != nil {
			return err
		}
		conf = c
	}
	for _, problem := range conf.Problems() {
		s.log.Warnf("config %s: %v", s.path, problem)
	}
	s.cur.Store(conf)
	return nil
}

// Load returns the current configuration.
func (s *Store) Load() *Config {
	return s.cur.Load()
}

// FrequencyOptions returns the frequency engine options of the current configuration.
func (s *Store) FrequencyOptions() *frequency.Options {
	return s.cur.Load().Frequency()
}
