package walletwidget

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Container attribute names.
const (
	AttrInstance = "data-ww-instance"
	AttrState    = "data-ww-state"
)

// sizeValue returns v when it is safe inside a style declaration. Sizes
// are otherwise passed through untouched; only values that could end the
// declaration or pull in resources are dropped.
func sizeValue(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	if strings.ContainsAny(v, ";{}<>\"'\\") {
		return "", false
	}
	lower := strings.ToLower(v)
	if strings.Contains(lower, "url(") || strings.Contains(lower, "expression(") || strings.Contains(lower, "/*") {
		return "", false
	}
	return v, true
}

// containerStyle builds the inline size declarations.
func containerStyle(cfg InstanceConfig) string {
	var parts []string
	if w, ok := sizeValue(cfg.Width); ok {
		parts = append(parts, "width:"+w)
	}
	if h, ok := sizeValue(cfg.Height); ok {
		parts = append(parts, "min-height:"+h)
	}
	return strings.Join(parts, ";")
}

// ContainerAttrs returns the attributes of an instance container.
func ContainerAttrs(in *Instance) []nethtml.Attribute {
	cfg := in.Config()
	attrs := []nethtml.Attribute{
		{Key: "id", Val: ClassPrefix + in.ID()},
		{Key: "class", Val: ContainerClass(cfg)},
		{Key: AttrInstance, Val: in.ID()},
		{Key: AttrState, Val: in.State().Kind.String()},
	}
	if style := containerStyle(cfg); style != "" {
		attrs = append(attrs, nethtml.Attribute{Key: "style", Val: style})
	}
	return attrs
}

// newContainerNode creates the detached container element for in.
func newContainerNode(in *Instance, extra []nethtml.Attribute) *nethtml.Node {
	return &nethtml.Node{
		Type:     nethtml.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     append(ContainerAttrs(in), extra...),
	}
}

// ContainerView renders a complete container around body, for standalone
// responses where there is no host document.
func ContainerView(in *Instance, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString("<div")
		for _, a := range ContainerAttrs(in) {
			sb.WriteString(" ")
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Val))
			sb.WriteString(`"`)
		}
		sb.WriteString(">")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

func setAttr(n *nethtml.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key && n.Attr[i].Namespace == "" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, nethtml.Attribute{Key: key, Val: val})
}

func getAttr(n *nethtml.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val, true
		}
	}
	return "", false
}
