package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/docstruct/internal/layout"
)

// OpenHTML reads a paged HTML document. <hr> elements delimit pages;
// h1/h2/h3+ map to title/section/subsection; <table> content is classified
// tabular, and <aside>, <footer> and elements with a footnote class are
// classified footnote. script/style/nav chrome is skipped entirely.
func OpenHTML(r io.Reader, filename string) (layout.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &layout.SourceUnreadableError{Name: filename, Err: err}
	}

	pd := &pagedDocument{
		name:  filename,
		first: 1,
		last:  1,
		pages: make(map[int][]layout.Block),
	}
	page := 1

	add := func(b layout.Block) {
		pd.pages[page] = append(pd.pages[page], b)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "hr":
				page++
				pd.last = page
				return
			case "script", "style", "nav":
				return
			case "aside", "footer":
				for _, t := range blockTexts(n) {
					add(layout.Block{Text: t, Class: layout.ClassFootnote})
				}
				return
			case "table":
				if t := htmlText(n); t != "" {
					add(layout.Block{Text: t, Class: layout.ClassTable})
				}
				return
			}

			if hasFootnoteClass(n) {
				for _, t := range blockTexts(n) {
					add(layout.Block{Text: t, Class: layout.ClassFootnote})
				}
				return
			}

			if level := htmlHeadingLevel(n.Data); level > 0 {
				title := htmlText(n)
				if title == "" {
					return
				}
				switch level {
				case 1:
					add(layout.Block{Text: title, Class: layout.ClassTitle})
				case 2:
					add(layout.Block{Text: title, Class: layout.ClassHeading, Level: 1})
				default:
					add(layout.Block{Text: title, Class: layout.ClassHeading, Level: 2})
				}
				return
			}

			switch n.Data {
			case "p", "li", "blockquote":
				if t := htmlText(n); t != "" {
					add(layout.Block{Text: t, Class: layout.ClassBody})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return pd, nil
}

func htmlHeadingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func hasFootnoteClass(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && strings.Contains(attr.Val, "footnote") {
			return true
		}
	}
	return false
}

// blockTexts returns one text unit per paragraph-level child, falling back
// to the element's whole text when it has no paragraph children.
func blockTexts(n *html.Node) []string {
	var out []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "p" || c.Data == "li") {
			if t := htmlText(c); t != "" {
				out = append(out, t)
			}
		}
	}
	if out == nil {
		if t := htmlText(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func htmlText(n *html.Node) string {
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
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
