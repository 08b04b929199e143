package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"golang.org/x/net/html"

	"github.com/hazyhaar/msaharvest/seqdata"
)

// ScanDOM is the last-resort channel: serialize the page and look for
// exported text stranded in the document itself.
func ScanDOM(ctx context.Context, page *rod.Page) (string, error) {
	doc, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("capture: serialize DOM: %w", err)
	}
	return ExtractFromHTML(doc), nil
}

// ExtractFromHTML finds the first plausible sequence payload in an HTML
// document: the content of a textarea, a pre block, or any element
// whose text carries a FASTA header marker and a nucleotide run. It
// returns "" when nothing non-trivial matches.
func ExtractFromHTML(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	return scanNode(root)
}

func scanNode(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style":
			return ""
		case "textarea", "pre":
			if text := nodeText(n); len(text) >= seqdata.MinLength {
				return text
			}
		default:
			text := nodeText(n)
			if len(text) >= seqdata.MinLength &&
				strings.Contains(text, ">") &&
				seqdata.LongestNucleotideRun(text) >= seqdata.MinRun {
				// Recurse first so the innermost matching element wins
				// over its ancestors.
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if found := scanNode(c); found != "" {
						return found
					}
				}
				return text
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := scanNode(c); found != "" {
			return found
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		if m.Type == html.ElementNode && (m.Data == "script" || m.Data == "style") {
			return
		}
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
