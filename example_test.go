package strata_test

import (
	"errors"
	"fmt"

	"github.com/0xalexb/strata"
)

// ServerConfig represents application server configuration. It implements
// both the Defaulter and Validator interfaces.
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Timeout int    `yaml:"timeout"`
}

// SetDefaults sets default values for the configuration.
func (c *ServerConfig) SetDefaults() bool {
	changed := false

	if c.Host == "" {
		c.Host = "localhost"
		changed = true
	}

	if c.Timeout == 0 {
		c.Timeout = 30
		changed = true
	}

	return changed
}

// Validate validates the configuration.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

// Example demonstrates the complete workflow: loading a configuration
// file, reading values through deep paths with placeholders resolved on
// access, and decoding a subtree into a struct with defaults applied.
func Example() {
	cfg, err := strata.Load("config.yaml", strata.WithConfigDir("testdata"))
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)

		return
	}

	// Deep paths address nested values; the placeholder in db.url is
	// resolved when the value is read.
	fmt.Println(cfg.MustGet("db.url"))

	// Missing paths can fall back to a default.
	pool, _ := cfg.GetDefault("db.pool_size", int64(10))
	fmt.Printf("Pool size: %d\n", pool)

	var server ServerConfig
	if err := cfg.Decode("server", &server); err != nil {
		fmt.Printf("Error decoding server config: %v\n", err)

		return
	}

	fmt.Printf("Server address: %s:%d\n", server.Host, server.Port)
	fmt.Printf("Timeout: %d\n", server.Timeout)
	// Output:
	// postgres://localhost:5432/app
	// Pool size: 10
	// Server address: 0.0.0.0:8080
	// Timeout: 30
}
