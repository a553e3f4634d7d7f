// Package expense converts raw Splitwise expense records into the
// domain model, computing the caller's monetary share.
package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/splitbridge/backend/internal/splitwise"
)

var (
	ErrMissingCategory = errors.New("the expense record has no category name")
	ErrUnparsableCost  = errors.New("the expense cost could not be parsed")
	ErrUnparsableShare = errors.New("the owed share could not be parsed")
	ErrUnparsableDate  = errors.New("the expense date could not be parsed")
)

// Expense is one normalized expense.
type Expense struct {
	ID          int64           `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Date        string          `json:"date"` // calendar day, YYYY-MM-DD
	ShareAmount decimal.Decimal `json:"shareAmount"`
	Friends     []string        `json:"friends"`
	Involved    bool            `json:"involved"`
}

// Normalize converts one page of raw expense records, preserving the
// page order. callerID is the Splitwise id of the authenticated user.
//
// A malformed record fails the whole page, records are never silently
// dropped.
func Normalize(raw []splitwise.Expense, callerID int64) ([]Expense, error) {
	expenses := make([]Expense, 0, len(raw))

	for _, record := range raw {
		expense, err := normalizeOne(record, callerID)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", record.ID, err)
		}

		expenses = append(expenses, expense)
	}

	return expenses, nil
}

func normalizeOne(record splitwise.Expense, callerID int64) (Expense, error) {
	if record.Category.Name == "" {
		return Expense{}, ErrMissingCategory
	}

	total, err := decimal.NewFromString(record.Cost)
	if err != nil {
		return Expense{}, fmt.Errorf("%w: %q", ErrUnparsableCost, record.Cost)
	}

	date, err := time.Parse(time.RFC3339, record.Date)
	if err != nil {
		// Some endpoints deliver the date without a time component
		date, err = time.Parse("2006-01-02", record.Date)
	}
	if err != nil {
		return Expense{}, fmt.Errorf("%w: %q", ErrUnparsableDate, record.Date)
	}

	expense := Expense{
		ID:          record.ID,
		Category:    record.Category.Name,
		Description: record.Description,
		Currency:    record.CurrencyCode,
		TotalAmount: total,
		// Any time-of-day component is discarded
		Date:    date.Format("2006-01-02"),
		Friends: []string{},
	}

	for _, participant := range record.Users {
		if participant.User.ID == callerID {
			continue
		}

		// A participant without any name renders as nothing, not as an
		// empty string.
		if name := displayName(participant.User); name != "" {
			expense.Friends = append(expense.Friends, name)
		}
	}

	for _, participant := range record.Users {
		if participant.UserID != callerID {
			continue
		}

		// Splitwise sends the share of uninvolved users as an empty
		// string on some endpoints, that counts as no share.
		if participant.OwedShare != "" {
			share, err := decimal.NewFromString(participant.OwedShare)
			if err != nil {
				return Expense{}, fmt.Errorf("%w: %q", ErrUnparsableShare, participant.OwedShare)
			}
			expense.ShareAmount = share
		}

		break
	}

	// A caller who is owed money has a zero or negative owed share and
	// counts as not involved. This is deliberate: the tool only copies
	// expenses the caller pays for.
	expense.Involved = expense.ShareAmount.IsPositive()

	return expense, nil
}

// displayName joins the first and last name, dropping empty parts.
func displayName(user splitwise.User) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{user.FirstName, user.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return norm.NFC.String(strings.Join(parts, " "))
}
