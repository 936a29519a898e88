package server

import "log"

// LogFeedback is the default stand-in for the external feedback-capture
// collaborator. The real widget runs client-side; it reports active and
// inactive through the session's feedback.active events.
type LogFeedback struct{}

func (LogFeedback) Begin(presentationID string, preview bool) {
	if preview {
		return
	}
	log.Printf("reveal-service: feedback handoff for presentation %s", presentationID)
}
