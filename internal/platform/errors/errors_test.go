package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrs.New("boom")
	err := Wrap(cause, ErrorCodeDB, "insert run")

	if got := err.Error(); got != "insert run: boom" {
		t.Fatalf("Error() = %q", got)
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the cause")
	}
	if Root(err) != cause {
		t.Fatalf("Root should return the deepest cause")
	}
}

func TestCodeOfAndIsCode(t *testing.T) {
	err := NotFoundf("run %s", "abc")
	if CodeOf(err) != ErrorCodeNotFound {
		t.Fatalf("CodeOf = %v", CodeOf(err))
	}
	if !IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("IsCode should match")
	}
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatalf("foreign errors map to Unknown")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFoundf("x"), http.StatusNotFound},
		{"invalid arg", InvalidArgf("x"), http.StatusUnprocessableEntity},
		{"validation", New(ErrorCodeValidation, "x"), http.StatusBadRequest},
		{"json", JSONErrf("x"), http.StatusBadRequest},
		{"duplicate", DuplicateKeyf("x"), http.StatusConflict},
		{"unauthorized", New(ErrorCodeUnauthorized, "x"), http.StatusUnauthorized},
		{"upstream", Upstreamf("site %s said no", "opre"), http.StatusBadGateway},
		{"unavailable", Unavailablef("x"), http.StatusServiceUnavailable},
		{"db", DBf("x"), http.StatusInternalServerError},
		{"unknown", Internalf("x"), http.StatusInternalServerError},
		{"foreign", stderrs.New("x"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(WithField(InvalidArgf("bad date"), "start_date"))
	if w.Code != ErrorCodeInvalidArgument || w.Field != "start_date" || w.Message != "bad date" {
		t.Fatalf("unexpected wire: %+v", w)
	}

	w = WireFrom(stderrs.New("plain"))
	if w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("foreign wire: %+v", w)
	}

	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire should be zero, got %+v", w)
	}
}

func TestWithOpCopyOnWrite(t *testing.T) {
	base := DBf("query failed")
	tagged := WithOp(base, "runs.Insert")

	e1, _ := As(base)
	e2, _ := As(tagged)
	if e1.Op() != "" {
		t.Fatalf("base must stay untagged")
	}
	if e2.Op() != "runs.Insert" {
		t.Fatalf("Op = %q", e2.Op())
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) must be nil")
	}
	err := WrapIf(stderrs.New("boom"), ErrorCodeDB, "ctx")
	if CodeOf(err) != ErrorCodeDB {
		t.Fatalf("WrapIf should carry code")
	}
}
