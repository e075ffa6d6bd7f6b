package scriptgen

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "REELCAST_MODE"
	// ModeMock indicates the mock generator should be used.
	ModeMock = "MOCK"
)

// NewGenerator creates a script generator based on the REELCAST_MODE
// environment variable. REELCAST_MODE=MOCK returns the mock generator;
// anything else returns the real HTTP client.
func NewGenerator(baseURL, apiKey string, timeout time.Duration) Generator {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("REELCAST_MODE=MOCK detected, using mock script generator")
		return NewMockGenerator()
	}
	return NewClient(baseURL, apiKey, timeout)
}
