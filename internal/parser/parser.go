package parser

import (
	"io"
	"strings"

	"github.com/dastanaron/favorites/internal/models"

	"golang.org/x/net/html"
)

// Parser parses Netscape bookmark HTML files, the format browsers use for
// bookmark import and export
type Parser struct {
	// KeepEmptyURLs keeps <A> elements without an href as links with an
	// empty URL instead of dropping them.
	KeepEmptyURLs bool
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseBookmarksHTML parses an HTML bookmark file into a forest. Each <H3>
// becomes a folder whose children are read from the <DL> that follows it;
// each <A HREF> becomes a link.
func (p *Parser) ParseBookmarksHTML(r io.Reader) ([]models.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	forest := []models.Node{}
	stack := []*[]models.Node{&forest}
	var pending *models.Folder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			// Found folder header <H3 ...>
			case "h3":
				folder := models.NewFolder(strings.TrimSpace(textContent(n)))
				top := stack[len(stack)-1]
				*top = append(*top, folder)
				pending = folder
				return
			// Found bookmark <A HREF=...>
			case "a":
				var href string
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						href = strings.TrimSpace(attr.Val)
					}
				}
				pending = nil
				if href != "" || p.KeepEmptyURLs {
					top := stack[len(stack)-1]
					*top = append(*top, models.NewLink(strings.TrimSpace(textContent(n)), href))
				}
				return
			// Entering DL container: it holds the children of the last header
			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, &pending.Children)
					pending = nil
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		// Recursively traverse children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return forest, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
