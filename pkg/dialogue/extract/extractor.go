package extract

import (
	"regexp"
	"strconv"
	"strings"

	"voice-intake-be/pkg/store"
)

// Apply pulls a quantity, a retailer and a residual product description out
// of one utterance and merges them into prior. Pure and deterministic:
// unmatched input leaves fields unset, and a slot already present in prior
// is never overwritten (confirmed values are sticky, only a restart clears
// them). Each successful match removes the matched span before the next
// stage runs, so a retailer name is not later misread as product text.
func Apply(utterance string, prior store.SlotState) store.SlotState {
	next := prior
	working := strings.ToLower(utterance)

	// 1. Quantity: first digit run wins, then the number-word vocabulary.
	working, quantity, matched := takeQuantity(working)
	if matched && !prior.HasQuantity() && quantity > 0 {
		next.Quantity = quantity
	}

	// 2. Retailer: first literal match from the ordered phrase list.
	working, retailer := takeRetailer(working)
	if retailer != "" && !prior.HasRetailer() {
		next.Retailer = retailer
	}

	// 3. Product name: only attempted while the slot is still open.
	if !prior.HasProductName() {
		if product := stripFillers(working); product != "" {
			next.ProductName = product
		} else if fallback := fallbackProduct(utterance); fallback != "" {
			next.ProductName = fallback
		}
	}

	return next
}

var digitRun = regexp.MustCompile(`\d+`)

type numberWord struct {
	re    *regexp.Regexp
	value int
}

// Scan order matters: the first vocabulary hit wins.
var numberWords = buildNumberWords()

func buildNumberWords() []numberWord {
	words := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}
	out := make([]numberWord, len(words))
	for i, w := range words {
		out[i] = numberWord{re: regexp.MustCompile(`\b` + w + `\b`), value: i + 1}
	}
	return out
}

// takeQuantity extracts at most one quantity per utterance and removes the
// matched span. The matched flag is reported even when the parsed value is
// unusable so the caller can keep the stages independent.
func takeQuantity(text string) (remainder string, quantity int, matched bool) {
	if span := digitRun.FindString(text); span != "" {
		n, err := strconv.Atoi(span)
		if err != nil {
			// Digit run too long to be a real quantity. Drop the span anyway.
			return strings.Replace(text, span, "", 1), 0, true
		}
		return strings.Replace(text, span, "", 1), n, true
	}
	for _, nw := range numberWords {
		if loc := nw.re.FindStringIndex(text); loc != nil {
			return text[:loc[0]] + text[loc[1]:], nw.value, true
		}
	}
	return text, 0, false
}

// Multi-word phrases come before their single-word prefixes so that
// "amazon grocery" is not swallowed by the plain "amazon" match.
var retailerPhrases = []string{"amazon grocery", "amazon fresh", "amazon", "walmart", "target", "costco"}

// takeRetailer scans the known retailer phrases, removes the first match and
// returns the canonical display form.
func takeRetailer(text string) (remainder string, retailer string) {
	for _, phrase := range retailerPhrases {
		if strings.Contains(text, phrase) {
			return strings.Replace(text, phrase, "", 1), canonicalRetailer(phrase)
		}
	}
	return text, ""
}

func canonicalRetailer(phrase string) string {
	// Both Amazon grocery brands collapse into one label.
	if phrase == "amazon grocery" || phrase == "amazon fresh" {
		return "Amazon Grocery"
	}
	return strings.ToUpper(phrase[:1]) + phrase[1:]
}

// Primary filler list, stripped word-boundary from the quantity/retailer
// cleaned text.
var fillerPatterns = buildFillerPatterns()

func buildFillerPatterns() []*regexp.Regexp {
	fillers := []string{
		"i want", "i need", "buy", "purchase", "order", "can i get",
		"please", "looking for", "search for", "find", "from", "a", "an", "the",
	}
	out := make([]*regexp.Regexp, len(fillers))
	for i, f := range fillers {
		out[i] = regexp.MustCompile(`(?i)\b` + f + `\b`)
	}
	return out
}

var punctMarks = regexp.MustCompile(`[.,?!]`)

func stripFillers(text string) string {
	for _, re := range fillerPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return tidy(text)
}

// fallbackProduct re-strips only a minimal filler set from the ORIGINAL
// utterance. Safety net for short utterances like "jacket" where the primary
// strip (running on the quantity/retailer-cleaned text) came up empty. The
// narrower list is deliberate: it avoids over-stripping single-word inputs.
var fallbackFillers = regexp.MustCompile(`(?i)i want|i need|buy|purchase|order|please`)

func fallbackProduct(utterance string) string {
	return tidy(fallbackFillers.ReplaceAllString(utterance, ""))
}

// tidy removes punctuation, collapses whitespace and trims.
func tidy(text string) string {
	text = punctMarks.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
