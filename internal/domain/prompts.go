package domain

import (
	"fmt"
	"strings"
)

// Persona is the brand the assistant speaks for.
type Persona struct {
	BrandName string
	Topics    string
}

// Welcome returns the session greeting.
func (p Persona) Welcome() string {
	return fmt.Sprintf("Hello! I'm your %s assistant. How can I help you today?", p.BrandName)
}

// StaticDecline is the fixed decline used when generation is unavailable.
func (p Persona) StaticDecline() string {
	return fmt.Sprintf(
		"I'm sorry, I don't have specific information about that. "+
			"I can only help with questions about %s, including %s. "+
			"Is there something else I can help you with?",
		p.BrandName, p.Topics)
}

// SessionInstruction is the system message that opens every conversation.
func (p Persona) SessionInstruction() string {
	return fmt.Sprintf(
		"You are a friendly voice assistant for %s. "+
			"Answer only from the FAQ and background notes you are given. "+
			"Keep answers short and conversational; they will be spoken aloud.",
		p.BrandName)
}

func (p Persona) matcherSystemPrompt() string {
	return fmt.Sprintf(`You match listener questions about %s to a numbered FAQ list.

Reply in exactly one of these formats and nothing else:

MATCH:<number>
NATURAL:<the answer rephrased for speech>

PARTIAL:<number>
NATURAL:<the closest answer rephrased for speech>

CONTEXT
NATURAL:<an answer built only from the background notes>

none

Rules:
- Use MATCH when one FAQ clearly answers the question.
- Use PARTIAL when a FAQ is related but may not be exactly what was asked.
- Use CONTEXT only when the background notes answer it and no FAQ does.
- Reply none when nothing applies. Never invent facts.
- NATURAL text must be one or two short spoken sentences without lists, markdown or URLs.`, p.BrandName)
}

func matcherUserPrompt(corpus *Corpus, question string) string {
	var b strings.Builder

	if notes := corpus.KnowledgeBase(); len(notes) > 0 {
		b.WriteString("Background notes:\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "[%s] %s\n", n.Topic, n.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("FAQ list:\n")
	for i, e := range corpus.Flatten() {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, e.Question, e.Answer)
	}

	fmt.Fprintf(&b, "\nListener asks: %q", question)

	return b.String()
}

func (p Persona) rephraseSystemPrompt() string {
	return fmt.Sprintf(
		"You are the voice assistant for %s. Rephrase the given FAQ answer so it sounds natural when spoken. "+
			"Keep every fact, drop URLs and formatting, and use at most two short sentences.",
		p.BrandName)
}

func rephraseUserPrompt(question, answer string) string {
	return fmt.Sprintf("Listener asked: %q\nFAQ answer: %s", question, answer)
}

func (p Persona) declineSystemPrompt() string {
	return fmt.Sprintf(
		"You are the voice assistant for %s. The listener asked something you have no information about. "+
			"Politely say you don't know, briefly acknowledge what they asked about, and mention that you can help with %s. "+
			"One or two short spoken sentences, no lists.",
		p.BrandName, p.Topics)
}
