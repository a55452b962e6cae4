package document

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markupPattern   = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
	inlineWSPattern = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// blockElements end with a paragraph break when flattened.
const blockElements = "p, div, h1, h2, h3, h4, h5, h6, blockquote, tr"

// PlainText flattens HTML markup in s to plain text, keeping line and
// paragraph breaks. Text without markup is returned with only its line
// endings normalized.
func PlainText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !markupPattern.MatchString(s) {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(markupPattern.ReplaceAllString(s, ""))
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n\n")
	})
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("- ")
		sel.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineWSPattern.ReplaceAllString(line, " "))
	}

	text := blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
