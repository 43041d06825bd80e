package httpapi

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const maxLoggedBodyBytes = 512

// statusRecorder captures the status code, the response size and the first
// maxLogBytes of the body.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
	wroteHeader  bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n

	if room := r.maxLogBytes - r.logBody.Len(); room > 0 {
		if len(p) > room {
			r.logBody.Write(p[:room])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}
	return n, err
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// accessLog writes one line per request. Error responses include the start
// of their body.
func accessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				maxLogBytes:    maxLoggedBodyBytes,
			}

			next.ServeHTTP(recorder, r)

			requestID := middleware.GetReqID(r.Context())
			elapsed := time.Since(start).Round(time.Microsecond)
			if recorder.statusCode >= http.StatusBadRequest {
				body := bytes.TrimSpace(recorder.logBody.Bytes())
				suffix := ""
				if recorder.truncated {
					suffix = "..."
				}
				logger.Printf("[%s] %s %s -> %d (%d bytes, %s) body=%s%s",
					requestID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed, body, suffix)
				return
			}
			logger.Printf("[%s] %s %s -> %d (%d bytes, %s)",
				requestID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed)
		})
	}
}
