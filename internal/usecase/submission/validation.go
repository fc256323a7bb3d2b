package submission

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domain "subsidy-intake/internal/domain/submission"
	"subsidy-intake/pkg/money"
)

const (
	MaxUIDLen     = 128
	MaxLevelLen   = 32
	MaxBotNameLen = 128
	MaxBotEntries = 100
)

const (
	msgAmountNeedsName  = "Bot name is required when an amount is entered."
	msgNameNeedsAmount  = "Amount is required when a bot name is entered."
	msgNoBotEntries     = "At least one bot entry is required."
	msgFixBotEntries    = "Please fix the bot entries section."
	msgTicketAmountOwed = "Ticket amount is required when Fortibots tickets are owed."
)

// scalarFields are the unconditional rules, checked by struct tags.
type scalarFields struct {
	ExternalUID  string `json:"external_uid"  validate:"required,max=128"`
	Level        string `json:"level"         validate:"required,max=32"`
	MissedAmount string `json:"missed_amount" validate:"omitempty,money"`
}

// conditionalRule is one (condition, field, constraint) triple. The amount
// returned by value must be present and valid money whenever when holds.
type conditionalRule struct {
	field    string
	when     func(in *SubmitInput) bool
	value    func(in *SubmitInput) MoneyInput
	required string
	assign   func(d *Draft, amt decimal.Decimal)
}

var conditionalRules = []conditionalRule{
	{
		field:    "ticket_amount",
		when:     func(in *SubmitInput) bool { return in.OwedTicket },
		value:    func(in *SubmitInput) MoneyInput { return in.TicketAmount },
		required: msgTicketAmountOwed,
		assign:   func(d *Draft, amt decimal.Decimal) { d.TicketAmount = money.Null(amt) },
	},
}

// Validator turns a raw SubmitInput into a Draft or a *domain.ValidationError
// listing every problem at once.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return money.Valid(fl.Field().String())
	})
	return &Validator{v: v}
}

func (val *Validator) Validate(in SubmitInput) (*Draft, error) {
	verr := &domain.ValidationError{}
	d := &Draft{
		ExternalUID: strings.TrimSpace(in.ExternalUID),
		Level:       strings.TrimSpace(in.Level),
		OwedTicket:  in.OwedTicket,
	}

	val.checkScalars(scalarFields{
		ExternalUID:  d.ExternalUID,
		Level:        d.Level,
		MissedAmount: string(in.MissedAmount),
	}, verr)
	if amt, ok, err := money.Parse(string(in.MissedAmount)); ok && err == nil {
		d.MissedAmount = money.Null(amt)
	}

	for _, r := range conditionalRules {
		if !r.when(&in) {
			continue
		}
		amt, ok, err := money.Parse(string(r.value(&in)))
		switch {
		case !ok:
			verr.AddField(r.field, r.required)
		case err != nil:
			verr.AddField(r.field, moneyMessage(err))
		default:
			r.assign(d, amt)
		}
	}

	d.BotEntries = validateEntries(in.BotEntries, verr)

	if !verr.Empty() {
		return nil, verr
	}
	return d, nil
}

func (val *Validator) checkScalars(f scalarFields, verr *domain.ValidationError) {
	err := val.v.Struct(f)
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		verr.AddForm(err.Error())
		return
	}
	for _, e := range ve {
		switch e.Tag() {
		case "required":
			verr.AddField(e.Field(), "This field is required.")
		case "max":
			verr.AddField(e.Field(), fmt.Sprintf("Must be at most %s characters.", e.Param()))
		case "money":
			_, _, perr := money.Parse(e.Value().(string))
			verr.AddField(e.Field(), moneyMessage(perr))
		default:
			verr.AddField(e.Field(), e.Tag()+" validation failed")
		}
	}
}

// validateEntries keeps complete rows, drops fully blank rows and records an
// error for every half-filled row.
func validateEntries(entries []BotEntryInput, verr *domain.ValidationError) []DraftEntry {
	if len(entries) > MaxBotEntries {
		verr.AddField("bot_entries", fmt.Sprintf("At most %d bot entries are allowed.", MaxBotEntries))
	}

	out := make([]DraftEntry, 0, len(entries))
	entryErrors := false
	complete := 0
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		nameField := fmt.Sprintf("bot_entries[%d].name", i)
		amountField := fmt.Sprintf("bot_entries[%d].amount", i)

		amt, hasAmount, perr := money.Parse(string(e.Amount))
		if hasAmount && perr != nil {
			verr.AddField(amountField, moneyMessage(perr))
			entryErrors = true
		}

		switch {
		case name != "" && !hasAmount:
			verr.AddField(amountField, msgNameNeedsAmount)
			entryErrors = true
		case name == "" && hasAmount:
			verr.AddField(nameField, msgAmountNeedsName)
			entryErrors = true
		case name != "":
			complete++
			if utf8.RuneCountInString(name) > MaxBotNameLen {
				verr.AddField(nameField, fmt.Sprintf("Must be at most %d characters.", MaxBotNameLen))
				entryErrors = true
				continue
			}
			if perr == nil {
				out = append(out, DraftEntry{Name: name, Amount: amt})
			}
		}
	}

	if complete == 0 {
		verr.AddForm(msgNoBotEntries)
	}
	if entryErrors {
		verr.AddForm(msgFixBotEntries)
	}
	return out
}

func moneyMessage(err error) string {
	switch {
	case errors.Is(err, money.ErrNegative):
		return "Amount must be 0 or greater."
	case errors.Is(err, money.ErrTooLarge):
		return "Amount is too large."
	case errors.Is(err, money.ErrPrecision):
		return "Amount must have at most 2 decimal places."
	default:
		return "Not a valid decimal value."
	}
}
