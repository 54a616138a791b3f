package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []string{"opre", "mnsc"}
	def := []string{"fallback"}
	got := IfEmpty(in, def)
	if len(got) != 2 || got[0] != "opre" {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	got2 := IfEmpty(empty, def)
	if len(got2) != 1 || got2[0] != "fallback" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("ok", "name"); got != "ok" {
		t.Fatalf("want ok got %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("MustString should panic on blank input")
		}
	}()
	MustString("   ", "name")
}

func TestMustPrefix(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"runs", "/runs"},
		{"/runs", "/runs"},
		{" runs/ ", "/runs"},
		{"//runs//", "/runs"},
	}
	for _, c := range cases {
		if got := MustPrefix(c.in); got != c.want {
			t.Errorf("MustPrefix(%q)=%q want %q", c.in, got, c.want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("MustPrefix should panic on root")
		}
	}()
	MustPrefix(" / ")
}

func TestPtrAndDeref(t *testing.T) {
	t.Parallel()

	if Ptr("") != nil {
		t.Fatalf("Ptr of empty should be nil")
	}
	p := Ptr("x")
	if p == nil || *p != "x" {
		t.Fatalf("Ptr returned %v", p)
	}
	if Deref(nil) != "" {
		t.Fatalf("Deref(nil) should be empty")
	}
	if Deref(p) != "x" {
		t.Fatalf("Deref returned %q", Deref(p))
	}
}

func TestSQLNull(t *testing.T) {
	t.Parallel()

	if SQLNull("  ") != nil {
		t.Fatalf("blank should be nil")
	}
	if SQLNull("v") != "v" {
		t.Fatalf("non-blank should pass through")
	}
}
