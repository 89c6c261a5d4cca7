package walletwidget

import (
	"context"
	"strings"
	"testing"
)

func TestSizeValue(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"320px", true},
		{"100%", true},
		{"calc(100% - 16px)", true},
		{"20em", true},
		{"", false},
		{"10px;background:red", false},
		{"url(https://evil.example/x.png)", false},
		{"EXPRESSION(alert(1))", false},
		{`10px"`, false},
		{"1px/**/", false},
	}
	for _, tt := range tests {
		if _, ok := sizeValue(tt.in); ok != tt.ok {
			t.Errorf("sizeValue(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestContainerAttrs(t *testing.T) {
	d, _ := DefaultRegistry().Lookup(TypeBalance)
	cfg := Resolve(Attributes{AttrTheme: "dark", AttrWidth: "100%", AttrHeight: "1px;color:red"}, d)
	in := NewInstance(cfg, d, nil)

	got := map[string]string{}
	for _, a := range ContainerAttrs(in) {
		got[a.Key] = a.Val
	}
	if got["id"] != "ww-"+in.ID() || got[AttrInstance] != in.ID() {
		t.Errorf("identity attrs = %v", got)
	}
	if got[AttrState] != "loading" {
		t.Errorf("state attr = %q", got[AttrState])
	}
	if !strings.Contains(got["class"], "ww-theme-dark") {
		t.Errorf("class = %q", got["class"])
	}
	if got["style"] != "width:100%" {
		t.Errorf("style = %q, want unsafe height dropped", got["style"])
	}
	// config keeps the raw value
	if in.Config().Height != "1px;color:red" {
		t.Errorf("config height = %q", in.Config().Height)
	}
}

func TestContainerView(t *testing.T) {
	in := newTestInstance(t, TypeQuickActions)
	result, err := TestComponent(context.Background(), ContainerView(in, LoadingView()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.HTML, `<div id="ww-`+in.ID()+`"`) || !strings.HasSuffix(result.HTML, "</div>") {
		t.Errorf("HTML = %s", result.HTML)
	}
	if !result.HTMLContainsAll("ww-type-quick-actions", "width:320px;min-height:160px", "ww-loading") {
		t.Errorf("HTML = %s", result.HTML)
	}
}
