package constant

// Assistant conversational texts. The wording is part of the product:
// clients render these verbatim and pipe them through speech synthesis.
const (
	GreetingPrompt = "Hello! I'm your order assistant. What product would you like to buy today?"

	MissingProductPrompt = "I didn't catch the product name. What do you want to buy?"

	// Fmt prompts - filled by the prompt package.
	MissingQuantityPromptFmt = "Got it, %s. How many do you want?"
	MissingRetailerPromptFmt = "Okay, %d %s. From which store? Amazon, Amazon Grocery, or Target?"
	ConfirmPromptFmt         = "Great! I'll order %d %s from %s. Should I submit the order now? I can also open the website for you."

	OpeningStorePromptFmt = "Opening %s to show you the product."
	DefaultStoreLabel     = "the store"

	SubmitSuccessPrompt     = "Success! Order recorded in your dashboard."
	SubmitRejectedPrompt    = "Sorry, there was an error submitting the order to the dashboard."
	SubmitUnreachablePrompt = "Sorry, I couldn't connect to the server."
	MissingProductError     = "Missing product name"
)

// AffirmativeTokens trigger the confirmation short-circuit: while the
// conversation is READY_TO_CONFIRM, an utterance containing any of these
// bypasses extraction and submits directly. Substring match, lower-cased.
var AffirmativeTokens = []string{"yes", "submit", "ok", "go ahead"}

// DefaultAutomationMethod is used when a conversation does not override it.
const DefaultAutomationMethod = "strands"
