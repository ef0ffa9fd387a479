package app

import "testing"

func TestSplitFlashcardsTwoCards(t *testing.T) {
	cards := splitFlashcards("Q1\nA1\n\nQ2\nA2a\nA2b\n\n\n")
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].Front != "Q1" || cards[0].Back != "A1" {
		t.Fatalf("card 0 = %+v", cards[0])
	}
	if cards[1].Front != "Q2" || cards[1].Back != "A2a\nA2b" {
		t.Fatalf("card 1 = %+v", cards[1])
	}
}

func TestSplitFlashcardsSingleLineBlock(t *testing.T) {
	cards := splitFlashcards("Only a front")
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].Front != "Only a front" || cards[0].Back != "" {
		t.Fatalf("card = %+v", cards[0])
	}
}

func TestSplitFlashcardsDiscardsBlankBlocks(t *testing.T) {
	cards := splitFlashcards("\n\n   \n\n\t\n\n")
	if len(cards) != 0 {
		t.Fatalf("got %d cards, want 0", len(cards))
	}
}

func TestSplitFlashcardsEmptyInput(t *testing.T) {
	if cards := splitFlashcards(""); len(cards) != 0 {
		t.Fatalf("got %d cards, want 0", len(cards))
	}
}
