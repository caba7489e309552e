package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shopmate/internal/domain"
)

// Reply types returned to the widget.
const (
	ReplyGreeting  = "greeting"
	ReplyProducts  = "products"
	ReplyNoResults = "no_results"
	ReplyCart      = "cart"
	ReplyEmptyCart = "empty_cart"
	ReplyHelp      = "help"
	ReplyError     = "error"
	ReplyDefault   = "default"
)

type ProductRef struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type Reply struct {
	Message  string       `json:"message"`
	Type     string       `json:"type"`
	Products []ProductRef `json:"products,omitempty"`
	Total    *float64     `json:"total,omitempty"`
}

const (
	greetingText = "Hi there! 👋 Welcome to ShopMate AI! I'm here to help you find amazing products. You can try:\n\n" +
		"• 'Show me electronics'\n• 'Find books under $20'\n• 'Search for headphones'\n• 'Show my cart'\n\n" +
		"What are you looking for today?"
	addHelpText = "I can help you add items to your cart! When I show you products, just click the 'Add to Cart' button on any item you like."
	helpText    = "I can help you with:\n\n" +
		"🛍️ **Product Search:**\n• 'Show me electronics'\n• 'Find books under $25'\n• 'Search for wireless headphones'\n\n" +
		"🛒 **Shopping Cart:**\n• 'Show my cart'\n• 'Add [product] to cart'\n\n" +
		"📊 **Filters & Sorting:**\n• 'Sort by price low to high'\n• 'Filter electronics under $100'\n\n" +
		"💬 **Other Commands:**\n• 'Clear chat' - Start fresh\n• 'Help' - Show this menu\n\n" +
		"Just tell me what you're looking for!"
	defaultText = "I'm not sure I understand that. Try asking me to:\n• Show products by category\n• Search for specific items\n" +
		"• Check your cart\n• Filter by price\n\nType 'help' for more options!"
	noResultsText = "Sorry, I couldn't find any products matching your search. Try:\n• 'Show me electronics'\n• 'Find books'\n• 'Search for textiles'"
	emptyCartText = "Your cart is empty! 🛒\n\nStart shopping by asking me to show you products:\n" +
		"• 'Show me electronics'\n• 'Find books'\n• 'Search for headphones'"
	badPriceText = "I couldn't understand the price range. Try: 'Show me products under $50'"
)

var (
	wordRe  = regexp.MustCompile(`\b\w+\b`)
	priceRe = regexp.MustCompile(`\$?(\d+)`)

	greetingWords = []string{"hello", "hi", "hey", "start"}
	searchWords   = []string{"show", "find", "search", "looking", "want"}
	cartWords     = []string{"cart", "basket", "added"}
	priceWords    = []string{"under", "below", "less than", "cheaper"}
	helpWords     = []string{"help", "what can you do", "commands"}

	// Looked up word by word; the first word with a mapping picks the category.
	categorySynonyms = map[string]string{
		"electronics": domain.CategoryElectronics, "electronic": domain.CategoryElectronics,
		"tech": domain.CategoryElectronics, "gadget": domain.CategoryElectronics, "gadgets": domain.CategoryElectronics,
		"books": domain.CategoryBooks, "book": domain.CategoryBooks, "reading": domain.CategoryBooks,
		"novel": domain.CategoryBooks, "textbook": domain.CategoryBooks,
		"textiles": domain.CategoryTextiles, "textile": domain.CategoryTextiles, "clothing": domain.CategoryTextiles,
		"clothes": domain.CategoryTextiles, "shirt": domain.CategoryTextiles, "jacket": domain.CategoryTextiles,
		"scarf": domain.CategoryTextiles,
	}

	// Category names recognised on their own, outside a search phrase.
	categoryNames = []struct{ word, category string }{
		{"electronics", domain.CategoryElectronics},
		{"books", domain.CategoryBooks},
		{"textiles", domain.CategoryTextiles},
		{"clothing", domain.CategoryTextiles},
		{"accessories", domain.CategoryTextiles},
	}

	stopWords = map[string]bool{
		"show": true, "me": true, "find": true, "search": true, "for": true, "the": true, "a": true,
		"an": true, "get": true, "want": true, "need": true, "looking": true, "some": true,
	}
)

// Assistant answers chat messages with keyword rules over the catalog and the
// user's cart.
type Assistant struct {
	Catalog *CatalogService
	Cart    *CartService
}

func NewAssistant(catalog *CatalogService, cart *CartService) *Assistant {
	return &Assistant{Catalog: catalog, Cart: cart}
}

func (a *Assistant) Respond(userID int64, message string) (Reply, error) {
	msg := strings.ToLower(message)
	words := wordRe.FindAllString(msg, -1)

	switch {
	case containsAny(msg, words, greetingWords):
		return Reply{Message: greetingText, Type: ReplyGreeting}, nil
	case containsAny(msg, words, searchWords):
		return a.search(words)
	case strings.Contains(msg, "add to cart"):
		return Reply{Message: addHelpText, Type: ReplyHelp}, nil
	case containsAny(msg, words, cartWords):
		return a.showCart(userID)
	case containsAny(msg, words, priceWords):
		return a.underPrice(msg)
	}
	for _, c := range categoryNames {
		if strings.Contains(msg, c.word) {
			return a.byCategory(c.word, c.category)
		}
	}
	if containsAny(msg, words, helpWords) {
		return Reply{Message: helpText, Type: ReplyHelp}, nil
	}
	return Reply{Message: defaultText, Type: ReplyDefault}, nil
}

// containsAny matches single keywords against whole words and phrases against
// the raw text, so "hi" does not fire inside "shirt".
func containsAny(msg string, words, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(k, " ") {
			if strings.Contains(msg, k) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == k {
				return true
			}
		}
	}
	return false
}

func (a *Assistant) search(words []string) (Reply, error) {
	for _, w := range words {
		if cat, ok := categorySynonyms[w]; ok {
			prods, err := a.Catalog.ListProductsByCategory(cat)
			if err != nil {
				return Reply{}, err
			}
			return productsReply("Here are some great products I found for you:", prods, noResultsText), nil
		}
	}

	var terms []string
	for _, w := range words {
		if !stopWords[w] {
			terms = append(terms, w)
		}
	}
	prods, err := a.Catalog.Search(terms)
	if err != nil {
		return Reply{}, err
	}
	return productsReply("Here are some great products I found for you:", prods, noResultsText), nil
}

func (a *Assistant) byCategory(word, category string) (Reply, error) {
	prods, err := a.Catalog.ListProductsByCategory(category)
	if err != nil {
		return Reply{}, err
	}
	return productsReply(
		fmt.Sprintf("Here are some great %s for you:", word),
		prods,
		fmt.Sprintf("Sorry, no %s available right now. Try browsing other categories!", word),
	), nil
}

func (a *Assistant) underPrice(msg string) (Reply, error) {
	m := priceRe.FindStringSubmatch(msg)
	if m == nil {
		return Reply{Message: badPriceText, Type: ReplyError}, nil
	}
	max, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Reply{Message: badPriceText, Type: ReplyError}, nil
	}
	prods, err := a.Catalog.UnderPrice(max)
	if err != nil {
		return Reply{}, err
	}
	if len(prods) == 0 {
		return Reply{Message: badPriceText, Type: ReplyError}, nil
	}
	return productsReply(fmt.Sprintf("Here are products under $%s:", m[1]), prods, ""), nil
}

func (a *Assistant) showCart(userID int64) (Reply, error) {
	view, err := a.Cart.View(userID)
	if err != nil {
		return Reply{}, err
	}
	if len(view.Items) == 0 {
		return Reply{Message: emptyCartText, Type: ReplyEmptyCart}, nil
	}

	var b strings.Builder
	b.WriteString("🛒 **Your Cart:**\n\n")
	for _, it := range view.Items {
		fmt.Fprintf(&b, "• %s x%d - $%.2f\n", it.Title, it.Quantity, it.Subtotal())
	}
	fmt.Fprintf(&b, "\n💰 **Total: $%.2f**\n\n", view.Total)
	b.WriteString("Ready to checkout? Just let me know!")

	total := view.Total
	return Reply{Message: b.String(), Type: ReplyCart, Total: &total}, nil
}

func productsReply(intro string, prods []domain.Product, empty string) Reply {
	if len(prods) == 0 {
		return Reply{Message: empty, Type: ReplyNoResults}
	}
	refs := make([]ProductRef, 0, len(prods))
	for _, p := range prods {
		refs = append(refs, ProductRef{ID: p.ID, Title: p.Title, Price: p.Price})
	}
	return Reply{
		Message:  intro + "\n\n" + FormatListing(prods),
		Type:     ReplyProducts,
		Products: refs,
	}
}

// FormatListing renders products in the chat markup the widget understands.
func FormatListing(prods []domain.Product) string {
	var b strings.Builder
	for _, p := range prods {
		fmt.Fprintf(&b, "🛍️ **%s**\n", p.Title)
		fmt.Fprintf(&b, "💰 $%.2f | ⭐ %s/5\n", p.Price, strconv.FormatFloat(p.Rating, 'f', -1, 64))
		fmt.Fprintf(&b, "📦 %s\n", p.Category)
		fmt.Fprintf(&b, "[Add to Cart](javascript:addToCart(%d))\n\n", p.ID)
	}
	return b.String()
}
