package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/pkg/money"
)

// MoneyInput is an amount as typed by the submitter. JSON strings, numbers and
// null are accepted; blank means "not provided". Numbers keep their literal
// text so no float rounding happens before validation.
type MoneyInput string

func (m *MoneyInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*m = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = MoneyInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("amount must be a string, number or null")
	}
	*m = MoneyInput(n.String())
	return nil
}

func (m MoneyInput) Blank() bool { return strings.TrimSpace(string(m)) == "" }

type BotEntryInput struct {
	Name   string     `json:"name"`
	Amount MoneyInput `json:"amount"`
}

type SubmitInput struct {
	ExternalUID  string          `json:"external_uid"`
	Level        string          `json:"level"`
	MissedAmount MoneyInput      `json:"missed_amount"`
	OwedTicket   bool            `json:"owed_ticket"`
	TicketAmount MoneyInput      `json:"ticket_amount"`
	BotEntries   []BotEntryInput `json:"bot_entries"`
}

// Draft is a fully validated, normalized submission ready to persist.
type Draft struct {
	ExternalUID  string
	Level        string
	MissedAmount decimal.NullDecimal
	OwedTicket   bool
	TicketAmount decimal.NullDecimal
	BotEntries   []DraftEntry
}

type DraftEntry struct {
	Name   string
	Amount decimal.Decimal
}

func (d *Draft) entity() *domain.Submission {
	s := &domain.Submission{
		ExternalUID:  d.ExternalUID,
		Level:        d.Level,
		MissedAmount: d.MissedAmount,
		OwedTicket:   d.OwedTicket,
		TicketAmount: d.TicketAmount,
		BotEntries:   make([]domain.BotEntry, 0, len(d.BotEntries)),
	}
	for _, e := range d.BotEntries {
		s.BotEntries = append(s.BotEntries, domain.BotEntry{BotName: e.Name, Amount: e.Amount})
	}
	return s
}

type BotEntryDTO struct {
	ID      uint64 `json:"id"`
	BotName string `json:"bot_name"`
	Amount  string `json:"amount"`
}

type SubmissionDTO struct {
	ID           uint64        `json:"id"`
	ExternalUID  string        `json:"external_uid"`
	Level        string        `json:"level"`
	MissedAmount string        `json:"missed_amount"`
	OwedTicket   bool          `json:"owed_ticket"`
	TicketAmount string        `json:"ticket_amount"`
	CreatedAt    time.Time     `json:"created_at"`
	BotCount     int           `json:"bot_count"`
	BotEntries   []BotEntryDTO `json:"bot_entries"`
}

// NewSubmissionDTO renders money as fixed two-decimal strings; absent amounts are "".
func NewSubmissionDTO(s *domain.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		ID:           s.ID,
		ExternalUID:  s.ExternalUID,
		Level:        s.Level,
		MissedAmount: money.FormatNull(s.MissedAmount),
		OwedTicket:   s.OwedTicket,
		TicketAmount: money.FormatNull(s.TicketAmount),
		CreatedAt:    s.CreatedAt.UTC(),
		BotCount:     len(s.BotEntries),
		BotEntries:   make([]BotEntryDTO, 0, len(s.BotEntries)),
	}
	for _, b := range s.BotEntries {
		dto.BotEntries = append(dto.BotEntries, BotEntryDTO{ID: b.ID, BotName: b.BotName, Amount: money.Format(b.Amount)})
	}
	return dto
}
