package splitwise

// User is the authenticated Splitwise user.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Balance is an outstanding balance with a friend in one currency.
type Balance struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// Friend is a Splitwise friend of the authenticated user.
type Friend struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Balance   []Balance `json:"balance"`
}

// Category is the nested category object of an expense.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ExpenseUser is one participant of an expense. Splitwise sends both the
// nested user object and a flat user_id, and they are not guaranteed to
// be populated consistently, so both are kept.
type ExpenseUser struct {
	User      User   `json:"user"`
	UserID    int64  `json:"user_id"`
	PaidShare string `json:"paid_share"`
	OwedShare string `json:"owed_share"`
}

// Expense is a raw Splitwise expense record.
type Expense struct {
	ID           int64         `json:"id"`
	Description  string        `json:"description"`
	Cost         string        `json:"cost"`
	CurrencyCode string        `json:"currency_code"`
	Date         string        `json:"date"`
	CreatedAt    string        `json:"created_at"`
	DeletedAt    *string       `json:"deleted_at"`
	Payment      bool          `json:"payment"`
	Category     Category      `json:"category"`
	Users        []ExpenseUser `json:"users"`
}

type currentUserResponse struct {
	User User `json:"user"`
}

type friendResponse struct {
	Friend Friend `json:"friend"`
}

type friendsResponse struct {
	Friends []Friend `json:"friends"`
}

type expensesResponse struct {
	Expenses []Expense `json:"expenses"`
}
