package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values. They can be customized via
// environment variables.
type Timeouts struct {
	InstanceRunning    time.Duration // Waiting for an instance to reach running
	InstanceTerminated time.Duration // Waiting for instances to release attachments during cleanup
	Delete             time.Duration // Bound for the whole compensation pass
	RetryMaxAttempts   int           // Retries for transient provider errors
	RetryInitialDelay  time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables. Unset
// or invalid variables fall back to defaults.
//
// Environment variables:
//   - DSLAB_TIMEOUT_INSTANCE_RUNNING (default: 5m)
//   - DSLAB_TIMEOUT_INSTANCE_TERMINATED (default: 5m)
//   - DSLAB_TIMEOUT_DELETE (default: 10m)
//   - DSLAB_RETRY_MAX_ATTEMPTS (default: 3)
//   - DSLAB_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		InstanceRunning:    parseDuration("DSLAB_TIMEOUT_INSTANCE_RUNNING", 5*time.Minute),
		InstanceTerminated: parseDuration("DSLAB_TIMEOUT_INSTANCE_TERMINATED", 5*time.Minute),
		Delete:             parseDuration("DSLAB_TIMEOUT_DELETE", 10*time.Minute),
		RetryMaxAttempts:   parseInt("DSLAB_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay:  parseDuration("DSLAB_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

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

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
