package middleware

import (
	"io"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
)

// LoggingMiddleware writes an Apache-style access log line per request.
func LoggingMiddleware(out io.Writer, next http.Handler) http.Handler {
	return handlers.CombinedLoggingHandler(out, next)
}

// RecoveryMiddleware turns handler panics into 500 responses instead of
// dropped connections.
func RecoveryMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger),
		handlers.PrintRecoveryStack(true),
	)(next)
}
