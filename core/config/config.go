// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gaurav-prasanna/ankitidy/core/ankiconnect"
)

// Cfg holds the settings for talking to the AnkiConnect service.
type Cfg struct {
	// URL is the AnkiConnect base URL. ANKI_CONNECT_URL.
	URL string
	// Timeout bounds every request. ANKI_CONNECT_TIMEOUT, in seconds.
	Timeout time.Duration
}

// Load reads .env (best effort, if present) then environment variables
// and returns the resulting Cfg with defaults applied.
func Load() (*Cfg, error) {
	_ = godotenv.Load()

	url := strings.TrimSpace(os.Getenv("ANKI_CONNECT_URL"))
	if url == "" {
		url = ankiconnect.DefaultURL
	}
	url = strings.TrimRight(url, "/")

	timeout := ankiconnect.DefaultTimeout
	if raw := strings.TrimSpace(os.Getenv("ANKI_CONNECT_TIMEOUT")); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid ANKI_CONNECT_TIMEOUT %q: want a positive number of seconds", raw)
		}
		timeout = time.Duration(secs) * time.Second
	}

	return &Cfg{URL: url, Timeout: timeout}, nil
}
