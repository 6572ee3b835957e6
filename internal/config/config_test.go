package config

import (
	"os"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Address != "0.0.0.0" {
		t.Errorf("Address = %q, want 0.0.0.0", cfg.Address)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
}

func TestValidate_RequiresServerAddress(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for missing --server-address")
	}
}

func TestValidate_RequiresAddressAndPort(t *testing.T) {
	cfg := New()
	cfg.PublicURL = "https://tailor.example.com"
	cfg.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for empty --address")
	}

	cfg = New()
	cfg.PublicURL = "https://tailor.example.com"
	cfg.Port = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for empty --port")
	}
}

func TestValidate_RejectsUnreadableTemplatesDir(t *testing.T) {
	cfg := New()
	cfg.PublicURL = "https://tailor.example.com"
	cfg.TemplatesDir = "/no/such/directory/should/exist"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for missing templates dir")
	}
	var cfgErr *ConfigError
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("Validate() error type = %T, want %T", err, cfgErr)
	}
}

func TestValidate_RejectsTemplatesDirThatIsAFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-dir")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	cfg := New()
	cfg.PublicURL = "https://tailor.example.com"
	cfg.TemplatesDir = f.Name()

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for templates dir that is a file")
	}
}

func TestValidate_AcceptsRealTemplatesDir(t *testing.T) {
	cfg := New()
	cfg.PublicURL = "https://tailor.example.com"
	cfg.TemplatesDir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}

func TestValidate_RejectsNegativeVerbosity(t *testing.T) {
	cfg := New()
	cfg.PublicURL = "https://tailor.example.com"
	cfg.Verbosity = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for negative verbosity")
	}
}

func TestListenAddress(t *testing.T) {
	cfg := New()
	if got, want := cfg.ListenAddress(), "0.0.0.0:8080"; got != want {
		t.Errorf("ListenAddress() = %q, want %q", got, want)
	}
}
