package sanitize

import (
    "fmt"
    "net/url"
    "regexp"
    "strings"

    htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
    "golang.org/x/net/html"
)

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
    raw = strings.TrimSpace(raw)
    if raw == "" {
        return ""
    }
    u, err := url.Parse(raw)
    if err != nil || u.Scheme == "" || u.Host == "" {
        return ""
    }
    if u.Scheme != "http" && u.Scheme != "https" {
        return ""
    }
    return u.String()
}

// Comment formats accepted by Comments.
const (
    CommentsHTML     = "html"
    CommentsText     = "text"
    CommentsMarkdown = "markdown"
)

// Comments renders an issue description in the requested format. HTML is
// returned untouched.
func Comments(format, s string) (string, error) {
    switch strings.ToLower(strings.TrimSpace(format)) {
    case "", CommentsHTML:
        return s, nil
    case CommentsText:
        return PlainText(s), nil
    case CommentsMarkdown:
        return Markdown(s), nil
    }
    return "", fmt.Errorf("unknown comments format %q (want html, text or markdown)", format)
}

// htmlTagPattern detects markup worth converting.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|table|figure|img)[\s>/]`)

func containsHTML(s string) bool {
    return htmlTagPattern.MatchString(strings.ToLower(s))
}

// Markdown converts HTML to Markdown. Input without markup, or that fails
// to convert, is returned unchanged.
func Markdown(s string) string {
    if s == "" || !containsHTML(s) {
        return s
    }
    md, err := htmltomarkdown.ConvertString(s)
    if err != nil {
        return s
    }
    return strings.TrimSpace(md)
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// PlainText strips markup and collapses whitespace.
func PlainText(s string) string {
    if s == "" {
        return ""
    }
    doc, err := html.Parse(strings.NewReader(s))
    if err != nil {
        return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
    }
    var b strings.Builder
    extractText(doc, &b)
    return strings.TrimSpace(whitespaceRegex.ReplaceAllString(b.String(), " "))
}

func extractText(n *html.Node, b *strings.Builder) {
    if n.Type == html.ElementNode {
        switch n.Data {
        case "script", "style":
            return
        }
    }
    if n.Type == html.TextNode {
        b.WriteString(n.Data)
    }
    if n.Type == html.ElementNode {
        switch n.Data {
        case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
            b.WriteString(" ")
        }
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        extractText(c, b)
    }
    if n.Type == html.ElementNode {
        switch n.Data {
        case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "td", "th":
            b.WriteString(" ")
        }
    }
}
