package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAccessLogZerologPassThrough(t *testing.T) {
	h := AccessLogZerolog(AccessLogOptions{Slow: time.Second})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestCaptureWriterRecords(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK}

	cw.WriteHeader(http.StatusAccepted)
	n, err := cw.Write([]byte("abc"))
	if err != nil || n != 3 {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	if cw.status != http.StatusAccepted || cw.bytes != 3 {
		t.Fatalf("capture: status=%d bytes=%d", cw.status, cw.bytes)
	}
}
