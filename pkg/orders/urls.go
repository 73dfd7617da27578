package orders

import (
	"fmt"
	"net/url"
	"strings"
)

// SearchURL derives the retailer search page for a product. Pure and total:
// every retailer/product combination yields a syntactically valid URL, with
// unknown retailers falling back to a generic web search. An empty retailer
// defaults to Amazon to match the payload default.
func SearchURL(productName, retailer string) string {
	query := url.QueryEscape(productName)
	if retailer == "" {
		retailer = "Amazon"
	}

	switch strings.ToLower(retailer) {
	case "amazon":
		return fmt.Sprintf("https://www.amazon.com/s?k=%s", query)
	case "amazon grocery", "amazon fresh":
		return fmt.Sprintf("https://www.amazon.com/s?k=%s&i=amazonfresh", query)
	case "walmart":
		return fmt.Sprintf("https://www.walmart.com/search?q=%s", query)
	case "target":
		return fmt.Sprintf("https://www.target.com/s?searchTerm=%s", query)
	default:
		return fmt.Sprintf("https://www.google.com/search?q=%s", query)
	}
}
