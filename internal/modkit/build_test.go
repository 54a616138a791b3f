package modkit

import (
	"net/http"
	"testing"

	"rowboat/internal/modkit/httpkit"
)

func TestBuildDefaults(t *testing.T) {
	b := Build()
	if b.Subrouter == nil || b.Register == nil {
		t.Fatalf("hooks should default to no-ops")
	}
	// default subrouter is identity
	var r httpkit.Router
	if got := b.Subrouter(r); got != r {
		t.Fatalf("default subrouter should be identity")
	}
}

func TestBuildCollectsOptions(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	called := false

	b := Build(
		WithName("harvest"),
		WithPrefix("/runs"),
		WithMiddlewares(mw),
		WithSwagger(true),
		WithPorts("ports-value"),
		WithRegister(func(httpkit.Router) { called = true }),
	)

	if b.Name != "harvest" || b.Prefix != "/runs" {
		t.Fatalf("name/prefix: %+v", b)
	}
	if len(b.Mw) != 1 || !b.SwaggerOn {
		t.Fatalf("mw/swagger: %+v", b)
	}
	if b.Ports != "ports-value" {
		t.Fatalf("ports: %+v", b.Ports)
	}
	b.Register(nil)
	if !called {
		t.Fatalf("register hook not preserved")
	}
}
