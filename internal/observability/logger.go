package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the logger shared by a service's HTTP surface and
// installs it as the zerolog global. Every line carries the service id
// so co-hosted decoders stay distinguishable in merged output. The
// level configured by internal/logging applies unchanged.
func InitLogger(service string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", service).
		Logger()
	log.Logger = logger
	return logger
}
