package widget

import (
	"time"

	"shopmate/internal/shopclient"
)

// Entry is one item of the transcript. The concrete types are UserMessage,
// BotMessage, ErrorMessage and ProductCardBlock.
type Entry interface {
	At() time.Time
	entry()
}

type UserMessage struct {
	Text string
	Time time.Time
}

type BotMessage struct {
	Text string
	Time time.Time
}

// ErrorMessage is a bot-side apology generated locally when the backend fails.
type ErrorMessage struct {
	Text string
	Time time.Time
}

type ProductCardBlock struct {
	Products []shopclient.Product
	Time     time.Time
}

func (e UserMessage) At() time.Time      { return e.Time }
func (e BotMessage) At() time.Time       { return e.Time }
func (e ErrorMessage) At() time.Time     { return e.Time }
func (e ProductCardBlock) At() time.Time { return e.Time }

func (UserMessage) entry()      {}
func (BotMessage) entry()       {}
func (ErrorMessage) entry()     {}
func (ProductCardBlock) entry() {}

const (
	WelcomeText = "👋 **Hello!**\n\nWelcome back to ShopMate AI! I'm here to help you find amazing products.\n\n" +
		"You can try:\n• \"Show me electronics\"\n• \"Find books under $30\"\n• \"Search for headphones\"\n• \"Show my cart\"\n\n" +
		"What are you looking for today? 🛍️"
	ConnectionErrorText = "Sorry, I'm having trouble connecting right now. Please try again in a moment."
)
