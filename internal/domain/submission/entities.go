package submission

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: submissions. Column names match the deployed schema.
type Submission struct {
	ID           uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalUID  string              `gorm:"column:uid;size:128;not null;uniqueIndex:ux_submissions_uid" json:"external_uid"`
	Level        string              `gorm:"column:s_level;size:32;not null;index:idx_submissions_s_level" json:"level"`
	MissedAmount decimal.NullDecimal `gorm:"column:missed_salary_amount;type:decimal(12,2)" json:"missed_amount"`
	OwedTicket   bool                `gorm:"column:owed_fortibots_tickets;not null;default:false" json:"owed_ticket"`
	TicketAmount decimal.NullDecimal `gorm:"column:fortibots_ticket_amount;type:decimal(12,2)" json:"ticket_amount"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime;not null;index:idx_submissions_created_at" json:"created_at"`

	BotEntries []BotEntry `gorm:"foreignKey:SubmissionID;references:ID;constraint:OnDelete:CASCADE" json:"bot_entries"`
}

func (Submission) TableName() string { return "submissions" }

// Table: subsidy_bots. Rows only exist under a submission.
type BotEntry struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID uint64          `gorm:"column:submission_id;not null;index:idx_subsidy_bots_submission_id" json:"submission_id"`
	BotName      string          `gorm:"column:bot_name;size:128;not null" json:"bot_name"`
	Amount       decimal.Decimal `gorm:"column:subsidy_amount;type:decimal(12,2);not null" json:"amount"`
}

func (BotEntry) TableName() string { return "subsidy_bots" }

// BotNames returns entry names in stored order.
func (s *Submission) BotNames() []string {
	out := make([]string, 0, len(s.BotEntries))
	for _, b := range s.BotEntries {
		out = append(out, b.BotName)
	}
	return out
}
