package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docstruct/internal/layout"
)

// OpenMarkdown reads a paged Markdown document using goldmark. Thematic
// breaks (---) delimit pages. Heading depth carries the classification
// directly: level 1 is the document title, level 2 a section, level 3 and
// deeper a subsection. GFM tables and footnote definitions map to their
// exclusion classes, so Markdown needs no style classifier.
func OpenMarkdown(r io.Reader, filename string) (layout.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, &layout.SourceUnreadableError{Name: filename, Err: err}
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	doc := md.Parser().Parse(text.NewReader(src))

	pd := &pagedDocument{
		name:  filename,
		first: 1,
		last:  1,
		pages: make(map[int][]layout.Block),
	}
	page := 1

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak:
			page++
			pd.last = page

		case *ast.Heading:
			title := string(node.Text(src))
			if title == "" {
				continue
			}
			switch {
			case node.Level <= 1:
				pd.pages[page] = append(pd.pages[page], layout.Block{Text: title, Class: layout.ClassTitle})
			case node.Level == 2:
				pd.pages[page] = append(pd.pages[page], layout.Block{Text: title, Class: layout.ClassHeading, Level: 1})
			default:
				pd.pages[page] = append(pd.pages[page], layout.Block{Text: title, Class: layout.ClassHeading, Level: 2})
			}

		case *ast.List:
			// Ordered lists are how numbered paragraphs surface in Markdown;
			// the parser eats the printed label, so it is reconstructed from
			// the list's start number.
			num := node.Start
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				t := mdText(item, src)
				if t == "" {
					continue
				}
				if node.IsOrdered() {
					t = fmt.Sprintf("%d. %s", num, t)
					num++
				}
				pd.pages[page] = append(pd.pages[page], layout.Block{Text: t, Class: layout.ClassBody})
			}

		case *east.Table:
			pd.pages[page] = append(pd.pages[page], layout.Block{
				Text:  mdText(node, src),
				Class: layout.ClassTable,
			})

		case *east.FootnoteList:
			for fn := node.FirstChild(); fn != nil; fn = fn.NextSibling() {
				t := mdText(fn, src)
				if t != "" {
					pd.pages[page] = append(pd.pages[page], layout.Block{Text: t, Class: layout.ClassFootnote})
				}
			}

		default:
			t := mdText(n, src)
			if t != "" {
				pd.pages[page] = append(pd.pages[page], layout.Block{Text: t, Class: layout.ClassBody})
			}
		}
	}

	return pd, nil
}

// mdText collects the text content of a goldmark AST node. Footnote
// reference links carry no text children, so footnote markers drop out of
// body text here.
func mdText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if buf.Len() > 0 && c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			buf.WriteString(mdText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
