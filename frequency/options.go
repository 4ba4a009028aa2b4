package frequency

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the default maximum amount of messages of one type per transaction epoch.
	DefaultLimit = 30
)

// Options are the engine settings resolved from configuration.
type Options struct {
	// Enabled is prevent-packet-frequency. If false, the engine does nothing at all.
	Enabled bool
	// DefaultLimit is generic-packet-frequency-default.
	DefaultLimit int
	// Limits holds the per type overrides parsed from generic-packet-frequency-limit.
	Limits map[string]int
	// TimerEnabled is prevent-timer-cheats.
	TimerEnabled bool
}

// DefaultOptions returns the options used when no configuration is present.
func DefaultOptions() *Options {
	return &Options{
		Enabled:      true,
		DefaultLimit: DefaultLimit,
		Limits:       map[string]int{},
		TimerEnabled: true,
	}
}

// LimitFor returns the limit for the message type name passed.
func (o *Options) LimitFor(name string) int {
	if l, ok := o.Limits[name]; ok {
		return l
	}
	return o.DefaultLimit
}

// OptionsProvider supplies the options a session should use for the message being processed. It is
// consulted once per message, so a configuration reload applies from the next message on.
type OptionsProvider interface {
	FrequencyOptions() *Options
}

type staticOptions struct{ o *Options }

func (s staticOptions) FrequencyOptions() *Options { return s.o }

// Static returns an OptionsProvider that always returns o.
func Static(o *Options) OptionsProvider {
	return staticOptions{o: o}
}

// ParseLimits parses "TYPE:limit" entries. The first entry for a type wins. Malformed entries are
// skipped, and an error is returned for each of them so that the caller can report it.
func ParseLimits(entries []string) (map[string]int, []error) {
	limits := make(map[string]int, len(entries))
	var errs []error
	for _, entry := range entries {
		name, limit, ok := strings.Cut(entry, ":")
		name, limit = strings.TrimSpace(name), strings.TrimSpace(limit)
		if !ok || name == "" || limit == "" {
			errs = append(errs, fmt.Errorf("malformed frequency limit %q: expected TYPE:limit", entry))
			continue
		}
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("malformed frequency limit %q: %q is not a valid limit", entry, limit))
			continue
		}
		if _, ok := limits[name]; ok {
			continue
		}
		limits[name] = n
	}
	return limits, errs
}
