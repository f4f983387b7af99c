package handlers

import (
	"errors"
	"net/http"
	"time"

	"deadline-tracker/errs"
	"deadline-tracker/firebase"
	"deadline-tracker/utilities"
)

// LoggingMiddleware logs every request that reaches next, including the
// router's own 404 and 405 answers, with status, body size and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		utilities.LogRequest(r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, rw.bytes, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AuthMiddleware requires a valid Firebase ID token in the Authorization
// header and stores the caller's UID in the request context.
func AuthMiddleware(verifier firebase.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := firebase.VerifyUserToken(r.Context(), verifier, r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, firebase.ErrMissingToken) {
					writeError(w, errs.NewUnauthorizedError("Authorization header missing"), "")
					return
				}
				utilities.LogError(err, "Invalid token")
				writeError(w, errs.NewUnauthorizedError("Invalid token"), "")
				return
			}

			next.ServeHTTP(w, r.WithContext(utilities.WithUserUID(r.Context(), uid)))
		})
	}
}
