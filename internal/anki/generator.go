package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Card represents a single Anki flashcard
type Card struct {
	Term       string // Front of the card
	Definition string // Back of the card
	Notes      string // Optional notes, e.g. the dates a word was word of the day
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output file path (.csv or .apkg)
	IncludeHeaders bool   // Include CSV headers
	DeckName       string // Deck name used for .apkg exports
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "goodwords.csv",
		IncludeHeaders: true,
		DeckName:       "Good Words",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns the collected cards
func (g *Generator) GetCards() []Card {
	return g.cards
}

// Generate writes the cards in the format implied by the output extension
func (g *Generator) Generate() error {
	if strings.EqualFold(filepath.Ext(g.options.OutputPath), ".apkg") {
		return g.GenerateAPKG(g.options.OutputPath, g.options.DeckName)
	}
	return g.GenerateCSV()
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		if err := writer.Write([]string{"Word", "Definition", "Notes"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		if err := writer.Write([]string{card.Term, card.Definition, card.Notes}); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return file.Close()
}

// GenerateAPKG creates a .apkg package for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	pkg := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		pkg.AddCard(card)
	}
	return pkg.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withNotes int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.Notes != "" {
			withNotes++
		}
	}
	return
}
