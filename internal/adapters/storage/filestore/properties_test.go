package filestore

import (
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/kanboard/internal/domain"
	"pgregory.net/rapid"
)

var (
	wordGen = rapid.StringMatching(`[A-Za-z0-9#*.,:'"-]{1,10}`)
	padGen  = rapid.SampledFrom([]string{"", "", " ", "  ", "\t", "\n", "\n\n", " \t\n"})
	baseAt  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// drawPadded surrounds s with drawn whitespace, blank lines, and tabs.
func drawPadded(rt *rapid.T, label, s string) string {
	return padGen.Draw(rt, label+"_lead") + s + padGen.Draw(rt, label+"_trail")
}

// drawPhrase draws one to max words joined by single spaces.
func drawPhrase(rt *rapid.T, label string, max int) string {
	n := rapid.IntRange(1, max).Draw(rt, label+"_words")
	words := make([]string, n)
	for i := range words {
		words[i] = wordGen.Draw(rt, label+"_word")
	}
	return strings.Join(words, " ")
}

// drawBoard draws a valid board with possibly empty columns and descriptions.
func drawBoard(rt *rapid.T) domain.Board {
	cols := make([]domain.Column, rapid.IntRange(1, 4).Draw(rt, "columns"))
	for i := range cols {
		cols[i].Name = drawPhrase(rt, "column", 2)
		cards := rapid.IntRange(0, 4).Draw(rt, "cards")
		for j := 0; j < cards; j++ {
			lines := make([]string, rapid.IntRange(0, 3).Draw(rt, "lines"))
			for k := range lines {
				lines[k] = drawPadded(rt, "line", drawPhrase(rt, "line", 4))
			}
			created := baseAt.Add(time.Duration(rapid.Int64Range(0, 1e8).Draw(rt, "created")) * time.Second)
			updated := created.Add(time.Duration(rapid.Int64Range(0, 1e6).Draw(rt, "age")) * time.Second)
			cols[i].Cards = append(cols[i].Cards, domain.Card{
				ID:          rapid.StringMatching(`[a-f0-9]{8}`).Draw(rt, "id"),
				Title:       drawPadded(rt, "title", drawPhrase(rt, "title", 3)),
				Description: strings.Join(lines, "\n"),
				Priority:    rapid.SampledFrom(domain.Priorities()).Draw(rt, "priority"),
				Done:        rapid.Bool().Draw(rt, "done"),
				CreatedAt:   created,
				UpdatedAt:   updated,
			})
		}
	}
	b, err := domain.RestoreBoard(cols)
	if err != nil {
		rt.Fatalf("RestoreBoard() error = %v", err)
	}
	return b
}

// TestEncodeDecodeRoundTrip checks load(save(b)) == b for both document formats.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		want := drawBoard(rt)
		format := rapid.SampledFrom([]Format{FormatJSON, FormatYAML}).Draw(rt, "format")

		data, err := Encode(format, want)
		if err != nil {
			rt.Fatalf("Encode(%s) error = %v", format, err)
		}
		got, err := Decode(format, data)
		if err != nil {
			rt.Fatalf("Decode(%s) error = %v\n%s", format, err, data)
		}
		if !got.Equal(want) {
			rt.Fatalf("round trip through %s changed the board\n%s", format, data)
		}
	})
}
