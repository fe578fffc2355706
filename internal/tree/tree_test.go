package tree

import (
	"strings"
	"testing"

	"github.com/firefly-engineering/browser-conf/internal/errors"
)

func TestFromYAML_PreservesOrder(t *testing.T) {
	data := []byte(`
zeta: 1
alpha:
  second: true
  first: "x"
middle: [a, b]
`)
	v, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML() error: %v", err)
	}

	keys := strings.Join(v.Keys(), ",")
	if keys != "zeta,alpha,middle" {
		t.Errorf("top-level keys = %q, want %q", keys, "zeta,alpha,middle")
	}

	alpha, _ := v.Get("alpha")
	if got := strings.Join(alpha.Keys(), ","); got != "second,first" {
		t.Errorf("alpha keys = %q, want %q", got, "second,first")
	}

	middle, _ := v.Get("middle")
	if !middle.IsSequence() || middle.Len() != 2 {
		t.Fatalf("middle = %+v, want sequence of 2", middle)
	}
}

func TestFromYAML_ScalarKinds(t *testing.T) {
	v, err := FromYAML([]byte(`
b: true
i: 42
f: 1.5
s: hello
q: "42"
n: ~
`))
	if err != nil {
		t.Fatalf("FromYAML() error: %v", err)
	}

	tests := []struct {
		key  string
		kind Kind
	}{
		{"b", KindBool},
		{"i", KindInt},
		{"f", KindFloat},
		{"s", KindString},
		{"q", KindString},
		{"n", KindNull},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := v.Get(tt.key)
			if !ok {
				t.Fatalf("key %q missing", tt.key)
			}
			if got.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.kind)
			}
		})
	}
}

func TestFromYAML_DuplicateKey(t *testing.T) {
	_, err := FromYAML([]byte("config:\n  a: 1\n  a: 2\n"))
	if err == nil {
		t.Fatal("expected error for duplicate key")
	}
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("error kind = %v, want validation", err)
	}
	if !strings.Contains(err.Error(), "config.a") {
		t.Errorf("error %q should name key path config.a", err)
	}
}

func TestFromYAML_MergeKeys(t *testing.T) {
	v, err := FromYAML([]byte(`
base: &base
  color: blue
  icon: cart
work:
  <<: *base
  color: red
`))
	if err != nil {
		t.Fatalf("FromYAML() error: %v", err)
	}

	work, _ := v.Get("work")
	color, _ := work.Get("color")
	icon, _ := work.Get("icon")
	if color.Str != "red" {
		t.Errorf("color = %q, want explicit key to win", color.Str)
	}
	if icon == nil || icon.Str != "cart" {
		t.Errorf("icon = %v, want merged value cart", icon)
	}
}

func TestFromYAML_Empty(t *testing.T) {
	v, err := FromYAML(nil)
	if err != nil {
		t.Fatalf("FromYAML() error: %v", err)
	}
	if !v.IsMapping() || v.Len() != 0 {
		t.Errorf("empty document = %+v, want empty mapping", v)
	}
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte("a: [unterminated"))
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestFromTOML_Order(t *testing.T) {
	v, err := FromTOML([]byte(`
[profile]
name = "work"

[config.browser]
startup = 3
tabs = true

[[containers]]
name = "Work"
color = "red"

[[containers]]
name = "Bank"
`))
	if err != nil {
		t.Fatalf("FromTOML() error: %v", err)
	}

	if got := strings.Join(v.Keys(), ","); got != "profile,config,containers" {
		t.Errorf("top-level keys = %q", got)
	}

	cfg, _ := v.Get("config")
	browser, _ := cfg.Get("browser")
	if got := strings.Join(browser.Keys(), ","); got != "startup,tabs" {
		t.Errorf("config.browser keys = %q, want startup,tabs", got)
	}

	containers, _ := v.Get("containers")
	if containers.Len() != 2 {
		t.Fatalf("containers len = %d, want 2", containers.Len())
	}
	first := containers.Items[0]
	if got := strings.Join(first.Keys(), ","); got != "name,color" {
		t.Errorf("first container keys = %q, want name,color", got)
	}
}

func TestFromTOML_Invalid(t *testing.T) {
	_, err := FromTOML([]byte("a = "))
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestFromJSON_Comments(t *testing.T) {
	data := []byte(`{
  // toolbar areas
  "placements": {"nav-bar": ["back-button", "urlbar-container",]},
  "currentVersion": 20,
  "ratio": 0.5,
}`)
	v, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}

	if got := strings.Join(v.Keys(), ","); got != "placements,currentVersion,ratio" {
		t.Errorf("keys = %q", got)
	}
	ver, _ := v.Get("currentVersion")
	if ver.Kind != KindInt || ver.Int != 20 {
		t.Errorf("currentVersion = %+v, want integer 20", ver)
	}
	ratio, _ := v.Get("ratio")
	if ratio.Kind != KindFloat {
		t.Errorf("ratio kind = %s, want float", ratio.Kind)
	}
}

func TestFromJSON_TrailingData(t *testing.T) {
	if _, err := FromJSON([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestMarshalJSON(t *testing.T) {
	m := Mapping()
	m.Set("z", Int(1))
	m.Set("a", Strings("x<y", "&"))
	inner := Mapping()
	inner.Set("on", Bool(true))
	inner.Set("none", Null())
	m.Set("inner", inner)

	got, err := MarshalJSON(m)
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	want := `{"z":1,"a":["x<y","&"],"inner":{"on":true,"none":null}}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := `{"placements":{"widget-overflow-fixed-list":[],"nav-bar":["back-button","forward-button"]},"seen":["save-to-pocket-button"],"dirtyAreaCache":["nav-bar"],"currentVersion":20,"newElementCount":2}`
	v, err := FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	out, err := MarshalJSON(v)
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	if string(out) != src {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", out, src)
	}
}

func TestMarshalYAML_Order(t *testing.T) {
	m := Mapping()
	m.Set("toolbar", Mapping())
	tb, _ := m.Get("toolbar")
	tb.Set("seen", Strings("a"))
	tb.Set("currentVersion", Int(20))

	out, err := MarshalYAML(m)
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	want := "toolbar:\n  seen:\n    - a\n  currentVersion: 20\n"
	if string(out) != want {
		t.Errorf("MarshalYAML() =\n%s\nwant\n%s", out, want)
	}

	back, err := FromYAML(out)
	if err != nil {
		t.Fatalf("FromYAML() error: %v", err)
	}
	tb2, _ := back.Get("toolbar")
	if got := strings.Join(tb2.Keys(), ","); got != "seen,currentVersion" {
		t.Errorf("keys after round trip = %q", got)
	}
}

func TestValue_SetReplacesInPlace(t *testing.T) {
	m := Mapping()
	m.Set("a", Int(1))
	m.Set("b", Int(2))
	m.Set("a", Int(3))

	if got := strings.Join(m.Keys(), ","); got != "a,b" {
		t.Errorf("keys = %q, want a,b", got)
	}
	a, _ := m.Get("a")
	if a.Int != 3 {
		t.Errorf("a = %d, want 3", a.Int)
	}
}

func TestValue_Clone(t *testing.T) {
	m := Mapping()
	m.Set("list", Strings("x"))
	c := m.Clone()
	list, _ := c.Get("list")
	list.Items[0].Str = "changed"

	orig, _ := m.Get("list")
	if orig.Items[0].Str != "x" {
		t.Error("Clone() shares nested values with the original")
	}
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		path, key, want string
	}{
		{"", "a", "a"},
		{"a", "b", "a.b"},
		{"config.zen", "tabs", "config.zen.tabs"},
	}
	for _, tt := range tests {
		if got := JoinKey(tt.path, tt.key); got != tt.want {
			t.Errorf("JoinKey(%q, %q) = %q, want %q", tt.path, tt.key, got, tt.want)
		}
	}
	if got := JoinIndex("containers", 2); got != "containers[2]" {
		t.Errorf("JoinIndex() = %q", got)
	}
}

func TestFromYAML_AliasExpansionLimit(t *testing.T) {
	data := []byte(`
a: &a ["x","x","x","x","x","x","x","x","x","x"]
b: &b [*a,*a,*a,*a,*a,*a,*a,*a,*a,*a]
c: &c [*b,*b,*b,*b,*b,*b,*b,*b,*b,*b]
d: &d [*c,*c,*c,*c,*c,*c,*c,*c,*c,*c]
e: &e [*d,*d,*d,*d,*d,*d,*d,*d,*d,*d]
f: &f [*e,*e,*e,*e,*e,*e,*e,*e,*e,*e]
g: &g [*f,*f,*f,*f,*f,*f,*f,*f,*f,*f]
h: &h [*g,*g,*g,*g,*g,*g,*g,*g,*g,*g]
i: &i [*h,*h,*h,*h,*h,*h,*h,*h,*h,*h]
`)
	_, err := FromYAML(data)
	if !errors.IsKind(err, errors.KindValidation) {
		t.Fatalf("FromYAML() error = %v, want a validation error", err)
	}
	if !strings.Contains(err.Error(), "aliases expand") {
		t.Errorf("error = %v", err)
	}

	small := []byte(`
base: &base {enabled: true, width: 3}
copies: [*base, *base]
`)
	v, err := FromYAML(small)
	if err != nil {
		t.Fatalf("FromYAML() small aliases error: %v", err)
	}
	copies, _ := v.Get("copies")
	if len(copies.Items) != 2 {
		t.Errorf("copies = %d items, want 2", len(copies.Items))
	}
}
