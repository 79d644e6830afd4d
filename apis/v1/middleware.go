package v1

import (
	"net/http"
	"time"

	logcontext "github.com/sumittt2004/agentforge/context"
	"github.com/sumittt2004/agentforge/log"
)

// RequestID tags each request with an id, taken from the X-Request-ID header
// when the caller supplies one, and logs its completion.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestHeader)
		if requestID == "" {
			requestID = logcontext.NewRequestID()
		}
		ctx := logcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestHeader, requestID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		log.Debugf(ctx, "%s %s served in %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// CORS allows browser clients from any origin
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestHeader)
		w.Header().Set("Access-Control-Expose-Headers", SessionHeader+", "+RequestHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
