package rio

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// envWorkers names the environment variable NewFromEnv consults. Sourcing
// the worker count from the environment is a convenience for embedding
// benchmark drivers; per the runtime's own scope, this is the only place
// the environment is consulted -- the runtime itself has no CLI.
const envWorkers = "RIO_WORKERS"

// Config configures a Runtime.
type Config struct {
	// NumWorkers is the number of worker goroutines to start. Must be > 0.
	NumWorkers uint32

	// Mapping assigns task IDs to workers. Defaults to RoundRobin(NumWorkers)
	// if nil.
	Mapping Mapping

	// Logger receives structured diagnostic events. Defaults to a no-op
	// logger if nil.
	Logger Logger
}

// ConfigFromEnv builds a Config sourcing NumWorkers from RIO_WORKERS when
// set, falling back to GOMAXPROCS otherwise.
func ConfigFromEnv() (Config, error) {
	n := runtime.GOMAXPROCS(0)
	if v := os.Getenv(envWorkers); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("rio: invalid %s=%q: must be a positive integer", envWorkers, v)
		}
		n = parsed
	}
	return Config{NumWorkers: uint32(n)}, nil
}
