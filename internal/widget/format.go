package widget

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

var (
	reBold   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic = regexp.MustCompile(`\*(.*?)\*`)
	reCart   = regexp.MustCompile(`\[Add to Cart\]\(javascript:addToCart\((\d+)\)\)`)
)

// cartButton posts to the widget's add-to-cart route through the page's
// cartForm, so the button works without script.
const cartButton = `<button type="submit" form="cartForm" formaction="/chat/cart/$1" class="add-to-cart-btn mt-2">Add to Cart</button>`

// FormatBot escapes bot text and then expands the four supported markup
// patterns. Nothing else in the text can produce markup.
func FormatBot(text string) template.HTML {
	s := html.EscapeString(text)
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	s = reCart.ReplaceAllString(s, cartButton)
	return template.HTML(s)
}

// PlainText drops the markup patterns, leaving what a reader sees.
func PlainText(text string) string {
	s := reBold.ReplaceAllString(text, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	return reCart.ReplaceAllString(s, "Add to Cart")
}
