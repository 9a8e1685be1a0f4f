package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kibidoart/kibido-backend/internal/cart"
)

// FormatAmount renders a decimal as a display amount with thousands
// separators and two fraction digits, e.g. 12345.5 -> "12,345.50".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + "." + fracPart
	if negative {
		return "-" + out
	}
	return out
}

// BuildOrderMessage renders the human-readable order text handed to the
// WhatsApp conversation.
func BuildOrderMessage(items []cart.LineItem, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("Hello, I would like to order the following items:\n\n")

	for _, item := range items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "• %dx %s - $%s\n", item.Quantity, item.Name, FormatAmount(lineTotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: $%s", FormatAmount(total))
	b.WriteString("\n\nPlease let me know the payment details and delivery options.")
	return b.String()
}

// BuildInquiryMessage renders the single-artwork inquiry text used by the
// boutique page's per-card WhatsApp button.
func BuildInquiryMessage(name string, price decimal.Decimal) string {
	return fmt.Sprintf(
		"Hello, I am interested in this artwork: %s (price: $%s). Could you tell me more about it?",
		name, FormatAmount(price),
	)
}

// BuildDeepLink produces the wa.me URL that opens the chat with the order
// message prefilled. The number keeps digits only. Spaces are percent-encoded,
// not "+": WhatsApp renders a literal plus sign otherwise.
func BuildDeepLink(number, message string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), text)
}
