package logger

import (
	log "log/slog"
	"os"
	"sync"
)

var (
	base *log.Logger
	once sync.Once
)

// Init installs a JSON slog logger as the process default. Level defaults to
// info; LOG_LEVEL=debug lowers it.
func Init() {
	once.Do(func() {
		level := log.LevelInfo
		if os.Getenv("LOG_LEVEL") == "debug" {
			level = log.LevelDebug
		}

		handler := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: level})
		base = log.New(handler)
		log.SetDefault(base)
	})
}

// L returns the shared logger, initializing it on first use so tests and
// library consumers never need an explicit Init call.
func L() *log.Logger {
	if base == nil {
		Init()
	}
	return base
}
