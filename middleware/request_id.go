package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID is chi's RequestID with uuid ids and the id echoed in the
// response. An incoming X-Request-ID is kept unless it is oversized.
func RequestID(next http.Handler) http.Handler {
	return assignRequestID(chimiddleware.RequestID(echoRequestID(next)))
}

func assignRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(RequestIDHeader); id == "" || len(id) > maxRequestIDLength {
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		next.ServeHTTP(w, r)
	})
}

func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RequestIDHeader, GetRequestIDFromContext(r.Context()))
		next.ServeHTTP(w, r)
	})
}
