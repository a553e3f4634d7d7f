package toshl

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// User is the authenticated Toshl user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Counts carries the usage counters of a category or tag.
type Counts struct {
	Entries int `json:"entries"`
}

// Category is a raw Toshl category. Income categories and soft-deleted
// categories are filtered out before they reach the rest of the app.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Deleted bool   `json:"deleted"`
	Counts  Counts `json:"counts"`
}

// Tag is a raw Toshl tag. The category reference is weak, a tag does not
// have to belong to a category.
type Tag struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Deleted  bool   `json:"deleted"`
	Counts   Counts `json:"counts"`
}

// Currency is the currency object of an entry.
type Currency struct {
	Code string `json:"code"`
}

// FlexID is an identifier that remote services represent either as a
// JSON number or as a JSON string. It always compares as a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	// Keep numeric ids numeric on the wire so that entries written by
	// this tool look the same as entries written by earlier versions.
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}

	return json.Marshal(string(f))
}

// Extra is the free-form extra object of an entry. The embedded expense
// id is what links an entry back to its source expense.
type Extra struct {
	ExpenseID FlexID   `json:"expense_id,omitempty"`
	Friends   []string `json:"friends,omitempty"`
}

// Entry is a Toshl entry. Amounts are negative for expenses.
type Entry struct {
	ID       string          `json:"id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	Date     string          `json:"date"`
	Desc     string          `json:"desc"`
	Account  string          `json:"account,omitempty"`
	Category string          `json:"category"`
	Tags     []string        `json:"tags,omitempty"`
	Deleted  bool            `json:"deleted,omitempty"`
	Extra    *Extra          `json:"extra,omitempty"`
}
