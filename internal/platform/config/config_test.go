package config

import (
	"testing"
	"time"

	kit "rowboat/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	hv := root.Prefix("HARVEST_")
	if got := hv.key("SITES"); got != "HARVEST_SITES" {
		t.Fatalf("key() = %q, want %q", got, "HARVEST_SITES")
	}
	// nested prefix
	hvLog := hv.Prefix("LOG_")
	if got := hvLog.key("LEVEL"); got != "HARVEST_LOG_LEVEL" {
		t.Fatalf("nested key() = %q, want %q", got, "HARVEST_LOG_LEVEL")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  rowboat ")
	if got := c.MustString("NAME"); got != "rowboat" {
		t.Fatalf("MustString = %q, want %q", got, "rowboat")
	}
	kit.MustPanic(t, func() { c.MustString("MISSING") })
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("API_")
	t.Setenv("API_PORT", "4000")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q, want %q", got, ":4000")
	}
	t.Setenv("API_PORT", "70000")
	kit.MustPanic(t, func() { c.MustPort("PORT") })
	t.Setenv("API_PORT", "nope")
	kit.MustPanic(t, func() { c.MustPort("PORT") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "1")
	t.Setenv("REQ_B", "2")
	kit.MustNotPanic(t, func() { c.Require("A", "B") })
	kit.MustPanic(t, func() { c.Require("A", "C") })
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	t.Setenv("S_SET", " value ")
	if got := c.MayString("SET", "def"); got != "value" {
		t.Fatalf("MayString set = %q, want %q", got, "value")
	}
	if got := c.MayString("UNSET", "def"); got != "def" {
		t.Fatalf("MayString unset = %q, want %q", got, "def")
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	t.Setenv("I_OK", "25")
	t.Setenv("I_NEG", "-3")
	t.Setenv("I_BAD", "x25")

	tests := []struct {
		name string
		key  string
		def  int
		want int
	}{
		{name: "valid", key: "OK", def: 0, want: 25},
		{name: "negative is valid", key: "NEG", def: 0, want: -3},
		{name: "invalid falls back", key: "BAD", def: 7, want: 7},
		{name: "missing falls back", key: "MISSING", def: 9, want: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.MayInt(tt.key, tt.def); got != tt.want {
				t.Fatalf("MayInt(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestMayBoolAndDuration(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_B", "true")
	t.Setenv("M_D", "2s")
	t.Setenv("M_BADD", "2 parsecs")

	if got := c.MayBool("B", false); got != true {
		t.Fatalf("MayBool = %v, want true", got)
	}
	if got := c.MayBool("MISSING", true); got != true {
		t.Fatalf("MayBool missing = %v, want default true", got)
	}
	if got := c.MayDuration("D", 0); got != 2*time.Second {
		t.Fatalf("MayDuration = %v, want 2s", got)
	}
	if got := c.MayDuration("BADD", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration invalid = %v, want default 5s", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	t.Setenv("CSV_SITES", " opre , isr ,, ms ")
	got := c.MayCSV("SITES", nil)
	want := []string{"opre", "isr", "ms"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	def := []string{"deca"}
	if got := c.MayCSV("MISSING", def); len(got) != 1 || got[0] != "deca" {
		t.Fatalf("MayCSV missing = %v, want %v", got, def)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	t.Setenv("E_POLICY", "overwrite")
	if got := c.MayEnum("POLICY", "disambiguate", "overwrite", "disambiguate"); got != "overwrite" {
		t.Fatalf("MayEnum = %q, want %q", got, "overwrite")
	}
	if got := c.MayEnum("MISSING", "disambiguate", "overwrite", "disambiguate"); got != "disambiguate" {
		t.Fatalf("MayEnum default = %q, want %q", got, "disambiguate")
	}
	t.Setenv("E_POLICY", "sideways")
	kit.MustPanic(t, func() { c.MayEnum("POLICY", "disambiguate", "overwrite", "disambiguate") })
}
