package widget

import (
	"fmt"
	"strings"
	"time"
)

// ExportName is the download name for a transcript exported at now.
func ExportName(now time.Time) string {
	return "shopmate-chat-" + now.Format("2006-01-02") + ".txt"
}

// ExportText serializes the text entries of a transcript. Product card blocks
// carry no text and are skipped.
func ExportText(entries []Entry) string {
	var b strings.Builder
	b.WriteString("ShopMate AI Chat History\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	for _, e := range entries {
		var sender, text string
		switch v := e.(type) {
		case UserMessage:
			sender, text = "You", v.Text
		case BotMessage:
			sender, text = "ShopMate AI", PlainText(v.Text)
		case ErrorMessage:
			sender, text = "ShopMate AI", v.Text
		default:
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n\n", e.At().Format(timeLayout), sender, text)
	}
	return b.String()
}
