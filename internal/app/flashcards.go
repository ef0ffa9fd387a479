package app

import "strings"

// cardText is one parsed flashcard candidate.
type cardText struct {
	Front string
	Back  string
}

// splitFlashcards parses one generated text block into card candidates.
// Candidates are separated by blank lines; within a candidate the first line
// is the front and the remaining lines joined are the back. Candidates whose
// trimmed text is empty are discarded.
func splitFlashcards(text string) []cardText {
	var cards []cardText
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		cards = append(cards, cardText{
			Front: lines[0],
			Back:  strings.Join(lines[1:], "\n"),
		})
	}
	return cards
}
