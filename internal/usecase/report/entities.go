package report

import (
	"strconv"
	"strings"
	"time"

	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/pkg/money"
)

// Table is a rendered export: a fixed header followed by string rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Export headers. External consumers depend on these names and orders.
var (
	SubmissionsHeader = []string{
		"submission_id", "created_at", "uid", "s_level", "missed_salary_amount",
		"owed_fortibots_tickets", "fortibots_ticket_amount", "bot_count", "bot_names",
	}
	EntriesHeader = []string{"submission_id", "bot_name", "subsidy_amount"}
	FlatHeader    = []string{
		"submission_id", "created_at", "uid", "s_level", "missed_salary_amount",
		"owed_fortibots_tickets", "fortibots_ticket_amount", "bot_name", "subsidy_amount",
	}
)

func submissionColumns(s *domain.Submission) []string {
	return []string{
		formatID(s.ID),
		formatTime(s.CreatedAt),
		s.ExternalUID,
		s.Level,
		money.FormatNull(s.MissedAmount),
		yesNo(s.OwedTicket),
		money.FormatNull(s.TicketAmount),
	}
}

func submissionRow(s *domain.Submission) []string {
	return append(submissionColumns(s),
		strconv.Itoa(len(s.BotEntries)),
		strings.Join(s.BotNames(), ", "),
	)
}

func entryRow(b *domain.BotEntry) []string {
	return []string{formatID(b.SubmissionID), b.BotName, money.Format(b.Amount)}
}

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
