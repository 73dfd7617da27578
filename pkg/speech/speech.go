package speech

// Channel drives the speech capability attached to one conversation. The
// actual recognition and synthesis run on the client; the engine only issues
// directives. At most one listening episode is active per conversation, and
// Speak preempts any in-progress synthesis. All calls are best-effort and
// advisory: the engine never blocks on synthesis completion, and a client
// without speech support simply ignores the directives and types instead.
type Channel interface {
	Speak(conversationID, text string)
	StartListening(conversationID string)
	StopListening(conversationID string)
	CancelSpeech(conversationID string)
}
