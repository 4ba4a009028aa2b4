package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oomph-ac/pacer/frequency"
	"github.com/sirupsen/logrus"
)

const yamlConfig = `
prevent-packet-frequency: true
generic-packet-frequency-default: 40
generic-packet-frequency-limit:
  - "Text:10"
  - "BookEdit"
  - "Text:50"
prevent-timer-cheats: false
ban-duration: 90s
`

const tomlConfig = `
prevent-packet-frequency = false
generic-packet-frequency-default = 25
generic-packet-frequency-limit = ["CommandRequest:5"]
remote-address = "10.0.0.2:19132"
ban-duration = 30
`

func TestDefaults(t *testing.T) {
	c := Default()
	o := c.Frequency()
	if !o.Enabled || !o.TimerEnabled || o.DefaultLimit != frequency.DefaultLimit || len(o.Limits) != 0 {
		t.Fatalf("unexpected default frequency options: %+v", o)
	}
	if c.LocalAddress() != DefaultLocalAddress || c.RemoteAddress() != DefaultRemoteAddress {
		t.Fatalf("unexpected default addresses %s -> %s", c.LocalAddress(), c.RemoteAddress())
	}
	if c.BanDuration() != DefaultBanDuration || c.BypassEnabled() || c.MetricsAddress() != "" {
		t.Fatalf("unexpected defaults")
	}
}

func TestParseYAML(t *testing.T) {
	c, err := Parse([]byte(yamlConfig), ".yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	o := c.Frequency()
	if !o.Enabled || o.TimerEnabled {
		t.Fatalf("unexpected toggles: %+v", o)
	}
	if o.DefaultLimit != 40 || o.LimitFor("Text") != 10 || o.LimitFor("BookEdit") != 40 {
		t.Fatalf("unexpected limits: %+v", o)
	}
	if len(c.Problems()) != 1 {
		t.Fatalf("expected the malformed entry to be reported once, got %v", c.Problems())
	}
	if c.BanDuration() != 90*time.Second {
		t.Fatalf("expected ban duration of 90s, got %v", c.BanDuration())
	}
}

func TestParseTOML(t *testing.T) {
	c, err := Parse([]byte(tomlConfig), ".toml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	o := c.Frequency()
	if o.Enabled || !o.TimerEnabled {
		t.Fatalf("unexpected toggles: %+v", o)
	}
	if o.DefaultLimit != 25 || o.LimitFor("CommandRequest") != 5 {
		t.Fatalf("unexpected limits: %+v", o)
	}
	if c.RemoteAddress() != "10.0.0.2:19132" {
		t.Fatalf("unexpected remote address %s", c.RemoteAddress())
	}
	if c.BanDuration() != 30*time.Second {
		t.Fatalf("numeric durations are seconds, got %v", c.BanDuration())
	}
}

func TestWrongTypesFallBack(t *testing.T) {
	c, err := Parse([]byte("prevent-timer-cheats: [1]\ngeneric-packet-frequency-default: lots\n"), ".yml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !c.Frequency().TimerEnabled || c.Frequency().DefaultLimit != frequency.DefaultLimit {
		t.Fatalf("expected defaults for values of the wrong type, got %+v", c.Frequency())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := Parse([]byte("{}"), ".json"); err == nil {
		t.Fatalf("expected an error for an unsupported format")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	for _, name := range []string{"pacer.yaml", "pacer.toml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := WriteDefault(path); err != nil {
			t.Fatalf("%s: write default: %v", name, err)
		}
		if err := WriteDefault(path); err == nil {
			t.Fatalf("%s: expected an error when the file exists", name)
		}

		c, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if c.Frequency().LimitFor("Text") != 10 || c.BanDuration() != DefaultBanDuration {
			t.Fatalf("%s: default file did not load back: %+v", name, c.Frequency())
		}
	}
}

func TestStoreReload(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	path := filepath.Join(t.TempDir(), "pacer.yml")
	if err := os.WriteFile(path, []byte("generic-packet-frequency-default: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewStore(path, log)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if s.FrequencyOptions().DefaultLimit != 5 {
		t.Fatalf("expected limit 5, got %d", s.FrequencyOptions().DefaultLimit)
	}

	if err := os.WriteFile(path, []byte("generic-packet-frequency-default: 8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.FrequencyOptions().DefaultLimit != 8 {
		t.Fatalf("expected reloaded limit 8, got %d", s.FrequencyOptions().DefaultLimit)
	}

	if err := os.WriteFile(path, []byte("generic-packet-frequency-default: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err == nil {
		t.Fatalf("expected reload of a broken file to fail")
	}
	if s.Load().Frequency().DefaultLimit != 8 {
		t.Fatalf("a failed reload must keep the previous configuration")
	}
}
