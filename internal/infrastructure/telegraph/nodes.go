package telegraph

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is one element of a page's content tree. Children mixes Node values
// and plain strings, matching the page API's node encoding.
type Node struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []any             `json:"children,omitempty"`
}

// NodesFromHTML converts an HTML fragment into page content nodes. Only
// href and src survive as attributes.
func NodesFromHTML(fragment string) ([]any, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}

	nodes := make([]any, 0, len(parsed))
	for _, n := range parsed {
		nodes = appendNode(nodes, n)
	}
	return nodes, nil
}

func appendNode(nodes []any, n *html.Node) []any {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			nodes = append(nodes, n.Data)
		}
	case html.ElementNode:
		node := Node{Tag: n.Data}
		for _, attr := range n.Attr {
			if attr.Key != "href" && attr.Key != "src" {
				continue
			}
			if node.Attrs == nil {
				node.Attrs = make(map[string]string)
			}
			node.Attrs[attr.Key] = attr.Val
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			node.Children = appendNode(node.Children, child)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
