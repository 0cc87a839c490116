package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// renderMarkdown renders dedented Markdown text to HTML, scoping the
// region with the given class name (spec §4.6.2). The Markdown renderer
// is an external collaborator (spec §1); goldmark is the concrete library
// wired in for that role (SPEC_FULL.md §11).
func renderMarkdown(text, scopeClass string) (string, error) {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	var buf bytes.Buffer
	if err := md.Convert([]byte(dedent(text)), &buf); err != nil {
		return "", err
	}
	return fmt.Sprintf(`<div class=%q>%s</div>`, scopeClass, buf.String()), nil
}

// dedent removes the common leading whitespace from every non-blank line,
// matching the "dedent the accumulated text" step of the Markdown flush
// (spec §4.6.2).
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	min := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if min == -1 || indent < min {
			min = indent
		}
	}
	if min <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= min {
			lines[i] = line[min:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// reparseHTML re-parses rendered Markdown HTML into the same Node shape
// the rest of the walker consumes (spec §4.6.2), via golang.org/x/net/html,
// the real HTML5 tree builder wired in for this one in-scope re-parse
// step (SPEC_FULL.md §11).
func reparseHTML(htmlText string) (*Node, error) {
	frag, err := html.ParseFragment(strings.NewReader(htmlText), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, err
	}
	root := &Node{Kind: KindFragment, Data: "Fragment"}
	for _, f := range frag {
		root.Children = append(root.Children, adaptHTMLNode(f))
	}
	return root, nil
}

func adaptHTMLNode(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return &Node{Kind: KindText, Data: n.Data}
	case html.CommentNode:
		return &Node{Kind: KindComment, Data: n.Data}
	default:
		out := &Node{Kind: KindElement, Data: n.Data}
		for _, a := range n.Attr {
			out.Attrs = append(out.Attrs, Attr{
				Kind:     AttrValue,
				Name:     a.Key,
				Segments: []Segment{{Text: a.Val}},
			})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			out.Children = append(out.Children, adaptHTMLNode(c))
		}
		return out
	}
}
