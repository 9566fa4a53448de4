// Package htmldoc builds the markup tree for an order-confirmation document
// and provides the traversal helpers the extraction engine works with.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Tidy undoes the backslash-escaping of quote characters that confirmation
// documents arrive with when they were embedded in another payload.
func Tidy(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte(`\"`), []byte(`"`))
}

// Load builds the markup tree from raw document bytes.
func Load(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// LoadTidy runs the tidy pre-pass and builds the markup tree.
func LoadTidy(data []byte) (*html.Node, error) {
	return Load(bytes.NewReader(Tidy(data)))
}

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// ID returns the element's id attribute.
func ID(n *html.Node) string {
	return Attr(n, "id")
}

// HasClass reports whether the element carries the given class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func hasClasses(n *html.Node, classes []string) bool {
	for _, c := range classes {
		if !HasClass(n, c) {
			return false
		}
	}
	return true
}

// Find returns root's descendant elements matching pred, in document order.
// The root itself is never included.
func Find(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// ByID returns every descendant element with the given id.
func ByID(root *html.Node, id string) []*html.Node {
	return Find(root, func(n *html.Node) bool { return ID(n) == id })
}

// ByIDPrefix returns every descendant element whose id starts with prefix.
func ByIDPrefix(root *html.Node, prefix string) []*html.Node {
	return Find(root, func(n *html.Node) bool {
		id := ID(n)
		return id != "" && strings.HasPrefix(id, prefix)
	})
}

// ByTag returns every descendant element with the given tag name.
func ByTag(root *html.Node, tag string) []*html.Node {
	return Find(root, func(n *html.Node) bool { return n.Data == tag })
}

// ByClass returns every descendant element carrying all of the given classes.
func ByClass(root *html.Node, classes ...string) []*html.Node {
	return Find(root, func(n *html.Node) bool { return hasClasses(n, classes) })
}

// ByTagClass returns every descendant element with the given tag name
// carrying all of the given classes.
func ByTagClass(root *html.Node, tag string, classes ...string) []*html.Node {
	return Find(root, func(n *html.Node) bool {
		return n.Data == tag && hasClasses(n, classes)
	})
}

// Text returns the concatenated text content of n's subtree, trimmed.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// NextSiblingTag returns the next sibling element if it has the given tag
// name, and nil otherwise. Text and comment nodes between siblings are
// skipped.
func NextSiblingTag(n *html.Node, tag string) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		if s.Data == tag {
			return s
		}
		return nil
	}
	return nil
}

// InsideTag reports whether n has an ancestor element with the given tag.
func InsideTag(n *html.Node, tag string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the element has no content beyond whitespace.
func IsEmpty(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return false
	}
	return true
}
