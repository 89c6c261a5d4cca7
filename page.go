package walletwidget

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a host document shared by the instances bound into it.
//
// The node tree is not safe for concurrent mutation, so every DOM read and
// write goes through the page lock. Instances fetch in parallel but apply
// their writes one at a time, each to its own container only.
type Page struct {
	mu  sync.Mutex
	doc *html.Node
}

// NewPage wraps an already-parsed document.
func NewPage(doc *html.Node) *Page {
	return &Page{doc: doc}
}

// ParsePage parses a host document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return NewPage(doc), nil
}

// InjectStyles inserts the shared stylesheet at most once. It reports
// whether this call inserted it.
func (p *Page) InjectStyles() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return injectStyles(p.doc)
}

// Render writes the document.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return html.Render(w, p.doc)
}

// String renders the document to a string.
func (p *Page) String() string {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ContainerHTML renders the current markup of the instance's container.
func (p *Page) ContainerHTML(in *Instance) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if in.container == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, in.container); err != nil {
		return ""
	}
	return buf.String()
}

// bindTags calls bind for every unbound tag matching match, in document
// order, with the page locked. A non-nil Instance returned by bind has its
// container inserted immediately before the tag, and the tag is marked
// bound so a second pass leaves it alone.
func (p *Page) bindTags(match func(*html.Node) bool, bind func(i int, tag *html.Node) *Instance) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, tag := range findAll(p.doc, match) {
		if _, bound := getAttr(tag, AttrBound); bound {
			continue
		}
		if tag.Parent == nil {
			continue
		}
		in := bind(i, tag)
		if in == nil || in.container == nil {
			continue
		}
		tag.Parent.InsertBefore(in.container, tag)
		setAttr(tag, AttrBound, in.ID())
	}
}

// write replaces the children of the instance's container with c.
//
// The component is rendered and parsed outside the lock; only the swap of
// the container's children happens under it.
func (p *Page) write(ctx context.Context, in *Instance, c templ.Component) error {
	return p.writeAs(ctx, in, in.State().Kind, c)
}

// writeAs is write with the container's state attribute set to kind, for
// views that do not match the instance's recorded state.
func (p *Page) writeAs(ctx context.Context, in *Instance, kind StateKind, c templ.Component) error {
	if in.container == nil {
		return fmt.Errorf("walletwidget: instance %s has no container", in.ID())
	}
	nodes, err := renderNodes(ctx, in, c)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	replaceChildren(in.container, nodes)
	setAttr(in.container, AttrState, kind.String())
	return nil
}

// renderNodes renders c and parses it as the content of the instance's
// container element.
func renderNodes(ctx context.Context, in *Instance, c templ.Component) ([]*html.Node, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render instance %s: %w", in.ID(), err)
	}
	parent := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(&buf, parent)
	if err != nil {
		return nil, fmt.Errorf("parse instance %s markup: %w", in.ID(), err)
	}
	return nodes, nil
}

func replaceChildren(n *html.Node, children []*html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		child = next
	}
	for _, c := range children {
		n.AppendChild(c)
	}
}
