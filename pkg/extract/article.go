package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FetchArticle downloads a web page and returns the prose of its paragraphs.
// Responses are cached under the URL, so re-requesting an article does not
// hit the remote host again.
func (e *Extractor) FetchArticle(ctx context.Context, rawURL string) (string, error) {
	body, err := e.rc.Get(ctx, rawURL, "article:"+rawURL)
	if err != nil {
		return "", err
	}

	text, err := ExtractParagraphs(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article html: %w", err)
	}
	if text == "" {
		return "", errors.New("page contains no paragraph text")
	}
	return text, nil
}

// ExtractParagraphs parses HTML and joins the text of every <p> element.
// Citation superscripts, styles and scripts inside paragraphs are skipped.
func ExtractParagraphs(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var output []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			if text := cleanParagraph(n); text != "" {
				output = append(output, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(output, "\n\n"), nil
}

func cleanParagraph(p *html.Node) string {
	var b strings.Builder
	traverseParagraph(p, &b)
	return strings.TrimSpace(b.String())
}

func traverseParagraph(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}

	if n.Type == html.ElementNode {
		// Skip citation markers and embedded style/script blocks.
		if n.DataAtom == atom.Sup || n.DataAtom == atom.Style || n.DataAtom == atom.Script {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		traverseParagraph(c, b)
	}
}
