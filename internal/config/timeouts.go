package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	HTTPRequest       time.Duration // Timeout for a single API request
	TaskWait          time.Duration // Default bound for waiting on a clone task
	TaskPollInterval  time.Duration // Fixed interval between task status polls
	RetryMaxAttempts  int           // Maximum retry attempts for DHCP pushes
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - CRAFTCTL_TIMEOUT_HTTP (default: 30s)
//   - CRAFTCTL_TIMEOUT_TASK_WAIT (default: 5m)
//   - CRAFTCTL_TASK_POLL_INTERVAL (default: 2s)
//   - CRAFTCTL_RETRY_MAX_ATTEMPTS (default: 3)
//   - CRAFTCTL_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		HTTPRequest:       parseDuration("CRAFTCTL_TIMEOUT_HTTP", 30*time.Second),
		TaskWait:          parseDuration("CRAFTCTL_TIMEOUT_TASK_WAIT", 5*time.Minute),
		TaskPollInterval:  parseDuration("CRAFTCTL_TASK_POLL_INTERVAL", 2*time.Second),
		RetryMaxAttempts:  parseInt("CRAFTCTL_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("CRAFTCTL_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// TestTimeouts returns short timeouts suitable for unit tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		HTTPRequest:       5 * time.Second,
		TaskWait:          500 * time.Millisecond,
		TaskPollInterval:  5 * time.Millisecond,
		RetryMaxAttempts:  2,
		RetryInitialDelay: 1 * time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
