package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements end a line of visible text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "li": true, "pre": true, "tr": true,
	"blockquote": true, "section": true, "article": true, "hr": true,
}

// VisibleText reduces an HTML book to plain text, skipping scripts/styles.
// Block elements become paragraph breaks so chapter headings stay on their
// own line.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := NormalizeName(n.Data)
			if text != "" {
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] && buf.Len() > 0 {
			if !strings.HasSuffix(buf.String(), "\n\n") {
				buf.WriteString("\n\n")
			}
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

// IsHTML reports whether a Content-Type header denotes an HTML document
func IsHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
