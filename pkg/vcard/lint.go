package vcard

import (
	"errors"
	"fmt"
	"io"
	"strings"

	govcard "github.com/emersion/go-vcard"
)

// Problem describes a card that a strict vCard reader rejects or finds
// incomplete. Card is the 0-based position of the card in the input.
type Problem struct {
	Card    int
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("card %d: %s", p.Card, p.Message)
}

// Lint checks text with a strict vCard decoder. Parse accepts anything;
// Lint reports what other address books would refuse. Decoding stops at
// the first syntax error.
func Lint(text string) []Problem {
	var problems []Problem
	dec := govcard.NewDecoder(strings.NewReader(text))
	for i := 0; ; i++ {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			problems = append(problems, Problem{Card: i, Message: err.Error()})
			break
		}
		if card.Get(govcard.FieldVersion) == nil {
			problems = append(problems, Problem{Card: i, Message: "missing VERSION"})
		}
		if card.Get(govcard.FieldFormattedName) == nil {
			problems = append(problems, Problem{Card: i, Message: "missing FN"})
		}
	}
	return problems
}
