package logging

import (
	"io"
	"net/http"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func Setup(w io.Writer, level string) {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()

	if err != nil {
		log.Warn().Msgf("Unknown log level %q, using info", level)
	}
}

// RequestLogger One structured line per inbound request, written through the global logger
func RequestLogger(serviceName string) func(http.Handler) http.Handler {
	return httplog.RequestLogger(log.Logger.With().Str("service", serviceName).Logger())
}
