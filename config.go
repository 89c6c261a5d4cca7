package walletwidget

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Embed tag attribute names.
const (
	AttrWidget = "data-widget"
	AttrTheme  = "data-theme"
	AttrTitle  = "data-title"
	AttrWidth  = "data-width"
	AttrHeight = "data-height"
)

// DefaultTheme is used when an embed tag carries no data-theme.
const DefaultTheme = "light"

// Attributes holds the raw data-* attributes of one embed tag, keyed by
// full attribute name (e.g. "data-theme").
type Attributes map[string]string

// Get returns the trimmed attribute value and whether it is non-blank.
func (a Attributes) Get(name string) (string, bool) {
	v, ok := a[name]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// WidgetType returns the requested widget type, if any.
func (a Attributes) WidgetType() (TypeID, bool) {
	v, ok := a.Get(AttrWidget)
	return TypeID(v), ok
}

// InstanceConfig is the resolved, immutable configuration of one Instance.
// Title, Width and Height are never empty once produced by Resolve.
type InstanceConfig struct {
	TypeID TypeID
	Theme  string
	Title  string
	Width  string
	Height string
}

// Resolve merges tag attributes over the descriptor defaults.
//
// Resolution never fails. Theme values other than the default are kept
// verbatim so hosts can use themes the engine does not know yet; width and
// height are passed through without unit validation.
func Resolve(attrs Attributes, d Descriptor) InstanceConfig {
	cfg := InstanceConfig{
		TypeID: d.TypeID,
		Theme:  DefaultTheme,
		Title:  d.DisplayName,
		Width:  d.DefaultWidth,
		Height: d.DefaultHeight,
	}
	if v, ok := attrs.Get(AttrTheme); ok {
		cfg.Theme = v
	}
	if v, ok := attrs.Get(AttrTitle); ok {
		cfg.Title = v
	}
	if v, ok := attrs.Get(AttrWidth); ok {
		cfg.Width = v
	}
	if v, ok := attrs.Get(AttrHeight); ok {
		cfg.Height = v
	}
	return cfg
}

// AttributesFromNode collects the data-* attributes of an element.
func AttributesFromNode(n *html.Node) Attributes {
	attrs := Attributes{}
	if n == nil {
		return attrs
	}
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "data-") {
			attrs[key] = a.Val
		}
	}
	return attrs
}

// AttributesFromQuery maps query parameters (widget, theme, title, width,
// height) onto embed attributes, for the single-widget endpoint.
func AttributesFromQuery(q url.Values) Attributes {
	attrs := Attributes{}
	for _, name := range []string{AttrWidget, AttrTheme, AttrTitle, AttrWidth, AttrHeight} {
		short := strings.TrimPrefix(name, "data-")
		if v := q.Get(short); v != "" {
			attrs[name] = v
		}
	}
	return attrs
}

// HXEncode implements Encodable for deferred tokens.
func (c InstanceConfig) HXEncode() map[string]any {
	return map[string]any{
		"t":  string(c.TypeID),
		"th": c.Theme,
		"ti": c.Title,
		"w":  c.Width,
		"h":  c.Height,
	}
}

// HXDecode implements Decodable for deferred tokens.
func (c *InstanceConfig) HXDecode(m map[string]any) error {
	if v, ok := m["t"].(string); ok {
		c.TypeID = TypeID(v)
	}
	if v, ok := m["th"].(string); ok {
		c.Theme = v
	}
	if v, ok := m["ti"].(string); ok {
		c.Title = v
	}
	if v, ok := m["w"].(string); ok {
		c.Width = v
	}
	if v, ok := m["h"].(string); ok {
		c.Height = v
	}
	if c.TypeID == "" {
		return ErrInvalidFormat
	}
	return nil
}
