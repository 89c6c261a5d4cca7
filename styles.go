package walletwidget

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StyleElementID identifies the injected stylesheet in a host page.
const StyleElementID = "ww-styles"

// stylesheet is shared by every instance on a page. All selectors are
// scoped under .ww-widget so host rules and widget rules do not meet.
const stylesheet = `.ww-widget{all:initial;display:block;box-sizing:border-box;border-radius:12px;overflow:hidden;font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;font-size:14px;line-height:1.4;margin:8px 0}
.ww-widget *{box-sizing:border-box;margin:0;padding:0;font-family:inherit}
.ww-widget.ww-theme-light{background:#ffffff;color:#111827;border:1px solid #e5e7eb}
.ww-widget.ww-theme-dark{background:#111827;color:#f9fafb;border:1px solid #374151}
.ww-widget .ww-header{padding:12px 16px;border-bottom:1px solid rgba(127,127,127,.2)}
.ww-widget .ww-title{font-size:15px;font-weight:600}
.ww-widget .ww-body{padding:12px 16px}
.ww-widget .ww-state{display:flex;flex-direction:column;align-items:center;gap:8px;padding:16px 0;text-align:center}
.ww-widget .ww-spinner{width:20px;height:20px;border:2px solid rgba(127,127,127,.3);border-top-color:#6366f1;border-radius:50%;animation:ww-spin 1s linear infinite}
@keyframes ww-spin{to{transform:rotate(360deg)}}
.ww-widget .ww-error .ww-message{color:#dc2626}
.ww-widget .ww-button{display:inline-block;padding:6px 14px;border-radius:8px;background:#6366f1;color:#fff;text-decoration:none;font-weight:500}
.ww-widget .ww-empty{padding:16px 0;text-align:center;opacity:.7}
.ww-widget .ww-list{list-style:none}
.ww-widget .ww-list-item{display:flex;justify-content:space-between;gap:8px;padding:8px 0;border-bottom:1px solid rgba(127,127,127,.15)}
.ww-widget .ww-list-item:last-child{border-bottom:none}
.ww-widget .ww-amount{font-variant-numeric:tabular-nums;font-weight:600}
.ww-widget .ww-amount-negative{color:#dc2626}
.ww-widget .ww-amount-positive{color:#16a34a}
.ww-widget .ww-balance-amount{font-size:28px;font-weight:700}
.ww-widget .ww-currency{margin-left:6px;opacity:.7;font-size:12px}
.ww-widget .ww-muted{opacity:.7;font-size:12px}
.ww-widget .ww-card{padding:12px;border-radius:10px;background:linear-gradient(135deg,#6366f1,#8b5cf6);color:#fff;margin-bottom:8px}
.ww-widget .ww-field{display:flex;justify-content:space-between;padding:4px 0}
.ww-widget .ww-metric{font-size:22px;font-weight:700}
.ww-widget .ww-progress{height:6px;border-radius:3px;background:rgba(127,127,127,.2);overflow:hidden}
.ww-widget .ww-progress-bar{height:100%;background:#16a34a}
.ww-widget .ww-actions{display:grid;grid-template-columns:repeat(2,1fr);gap:8px}
`

// Stylesheet returns the shared widget stylesheet.
func Stylesheet() string {
	return stylesheet
}

// injectStyles inserts the stylesheet into doc unless an element with
// StyleElementID is already present. Caller holds the page lock.
func injectStyles(doc *html.Node) bool {
	if doc == nil {
		return false
	}
	if findByID(doc, StyleElementID) != nil {
		return false
	}
	style := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     "style",
		Attr:     []html.Attribute{{Key: "id", Val: StyleElementID}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: stylesheet})

	parent := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Head
	})
	if parent == nil {
		parent = findFirst(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode
		})
	}
	if parent == nil {
		parent = doc
	}
	parent.AppendChild(style)
	return true
}

func findByID(root *html.Node, id string) *html.Node {
	return findFirst(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := getAttr(n, "id")
		return ok && v == id
	})
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}
