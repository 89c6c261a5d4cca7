package walletwidget

import (
	"context"
	"html"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

// itemsPayload is a minimal payload shared by every fixture renderer.
type itemsPayload struct {
	Items []string `json:"items"`
	Label string   `json:"label"`
}

func (p *itemsPayload) Normalize() {
	if p.Label == "" {
		p.Label = "items"
	}
}

func itemsView(id TypeID) func(context.Context, itemsPayload) templ.Component {
	return func(_ context.Context, p itemsPayload) templ.Component {
		if len(p.Items) == 0 {
			return EmptyView("No " + p.Label)
		}
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			var sb strings.Builder
			sb.WriteString(`<ul class="ww-list" data-fixture="` + string(id) + `">`)
			for _, it := range p.Items {
				sb.WriteString("<li>" + html.EscapeString(it) + "</li>")
			}
			sb.WriteString("</ul>")
			_, err := io.WriteString(w, sb.String())
			return err
		})
	}
}

// fixtureRenderers returns one fixture renderer per type in reg.
func fixtureRenderers(reg *Registry) []Renderer {
	var rs []Renderer
	for _, id := range reg.Types() {
		rs = append(rs, Typed(id, itemsView(id)))
	}
	return rs
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	reg := DefaultRegistry()
	d, err := NewDispatcher(reg, fixtureRenderers(reg), WithDispatchLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func newTestBootstrapper(t *testing.T, f Fetcher, opts ...BootstrapOption) *Bootstrapper {
	t.Helper()
	opts = append([]BootstrapOption{WithLogger(quietLogger())}, opts...)
	return NewBootstrapper(newTestDispatcher(t), f, opts...)
}
