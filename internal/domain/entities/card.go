package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardKind discriminates the card tagged union
type CardKind string

const (
	CardKindStandard CardKind = "standard" // question / optional hint / answer
	CardKindQuiz     CardKind = "quiz"     // question / options / correct index
)

// Card is a flashcard owned by a slide pack. Cards are independent of
// slide timing and are carried through merges as a concatenated list;
// card ids must stay unique within the pack.
type Card struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SlidePackID uuid.UUID `json:"slide_pack_id" gorm:"type:uuid;not null;index"`
	CardID      int       `json:"card_id" gorm:"type:integer;not null"`
	Kind        CardKind  `json:"kind" gorm:"type:varchar(20);not null"`
	Question    string    `json:"question" gorm:"type:text;not null"`

	// standard fields
	Hint   *string `json:"hint,omitempty" gorm:"type:text"`
	Answer string  `json:"answer,omitempty" gorm:"type:text"`

	// quiz fields
	Options      []string `json:"options,omitempty" gorm:"type:jsonb;serializer:json"`
	CorrectIndex *int     `json:"correct_index,omitempty" gorm:"type:integer"`
	Explanation  *string  `json:"explanation,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Card) TableName() string {
	return "cards"
}

// Validate checks the card variant exhaustively
func (c *Card) Validate() error {
	if c.Question == "" {
		return fmt.Errorf("card %d: %w", c.CardID, ErrCardMissingQuestion)
	}

	switch c.Kind {
	case CardKindStandard:
		if c.Answer == "" {
			return fmt.Errorf("card %d: %w", c.CardID, ErrCardMissingAnswer)
		}
		return nil

	case CardKindQuiz:
		if len(c.Options) < 2 {
			return fmt.Errorf("card %d: %w", c.CardID, ErrCardTooFewOptions)
		}
		if c.CorrectIndex == nil || *c.CorrectIndex < 0 || *c.CorrectIndex >= len(c.Options) {
			return fmt.Errorf("card %d: %w", c.CardID, ErrCardCorrectIndexOutOfRange)
		}
		return nil

	default:
		return fmt.Errorf("card %d: %w: %q", c.CardID, ErrCardUnknownKind, c.Kind)
	}
}

// ValidateCards validates a card list and checks card id uniqueness
func ValidateCards(cards []Card) error {
	seen := make(map[int]struct{}, len(cards))
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[cards[i].CardID]; dup {
			return fmt.Errorf("card %d: %w", cards[i].CardID, ErrCardDuplicateID)
		}
		seen[cards[i].CardID] = struct{}{}
	}
	return nil
}
