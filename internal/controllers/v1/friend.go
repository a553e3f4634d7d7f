package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"

	"github.com/splitbridge/backend/internal/duplicate"
	"github.com/splitbridge/backend/internal/expense"
	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/models"
	"github.com/splitbridge/backend/internal/splitwise"
	"github.com/splitbridge/backend/internal/toshl"
)

// defaultPageSize is the expense page size when the limit parameter is
// not set.
const defaultPageSize = 30

// RegisterFriendRoutes registers the routes for friends and their
// expense pages.
func (co Controller) RegisterFriendRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetFriends)

	r.OPTIONS("/:id", httputil.OptionsGet)
	r.GET("/:id", co.GetFriend)

	r.OPTIONS("/:id/expenses", httputil.OptionsGet)
	r.GET("/:id/expenses", co.GetExpenses)
}

// Friend is a Splitwise friend with their outstanding balances.
type Friend struct {
	ID      int64               `json:"id"`
	Name    string              `json:"name"`
	Balance []splitwise.Balance `json:"balance"`
}

func newFriend(f splitwise.Friend) Friend {
	parts := make([]string, 0, 2)
	for _, part := range []string{f.FirstName, f.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return Friend{
		ID:      f.ID,
		Name:    strings.Join(parts, " "),
		Balance: f.Balance,
	}
}

// GetFriends returns all friends of the authenticated user. The name
// query parameter filters by a case-insensitive glob pattern.
func (co Controller) GetFriends(c *gin.Context) {
	client, err := co.Splitwise()
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	raw, err := client.Friends(c.Request.Context())
	if err != nil {
		c.JSON(status(errUpstreamFailed), httpError{Error: errUpstreamFailed.Error()})
		return
	}

	pattern := strings.ToLower(c.Query("name"))

	friends := make([]Friend, 0, len(raw))
	for _, f := range raw {
		friend := newFriend(f)
		if pattern != "" && !glob.Glob(pattern, strings.ToLower(friend.Name)) {
			continue
		}

		friends = append(friends, friend)
	}

	c.JSON(http.StatusOK, friends)
}

// GetFriend returns the details of a single friend.
func (co Controller) GetFriend(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errFriendIDInvalid.Error()})
		return
	}

	client, err := co.Splitwise()
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	friend, err := client.Friend(c.Request.Context(), id)
	if err != nil {
		c.JSON(status(errUpstreamFailed), httpError{Error: errUpstreamFailed.Error()})
		return
	}

	c.JSON(http.StatusOK, newFriend(friend))
}

// ExpensePageItem is one normalized expense with its duplicate state.
type ExpensePageItem struct {
	expense.Expense
	Transferred bool `json:"transferred"`
}

// ExpensePage is one page of normalized expenses shared with a friend.
type ExpensePage struct {
	FriendID int64             `json:"friendId"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Anchor   string            `json:"anchor,omitempty"` // most recent date of the page
	Expenses []ExpensePageItem `json:"expenses"`
}

// GetExpenses returns one page of normalized expenses shared with a
// friend, cross-checked against the target service for duplicates.
//
// The duplicate corpus is fetched once per distinct anchor date, bounded
// by the 100 day lookback window and filtered by the selected tag. When
// the corpus cannot be loaded the page still renders, every expense then
// reports transferred=false and the submission endpoint remains the
// safety net.
func (co Controller) GetExpenses(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errFriendIDInvalid.Error()})
		return
	}

	caller := co.Sessions.Source()
	if caller.ID == 0 {
		c.JSON(status(errAccountsNotLoaded), httpError{Error: errAccountsNotLoaded.Error()})
		return
	}

	limit := defaultPageSize
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o > 0 {
		offset = o
	}

	client, err := co.Splitwise()
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	raw, err := client.Expenses(c.Request.Context(), id, limit, offset)
	if err != nil {
		c.JSON(status(errUpstreamFailed), httpError{Error: errUpstreamFailed.Error()})
		return
	}

	expenses, err := expense.Normalize(raw, caller.ID)
	if err != nil {
		c.JSON(status(errUpstreamFailed), httpError{Error: err.Error()})
		return
	}

	page := ExpensePage{
		FriendID: id,
		Limit:    limit,
		Offset:   offset,
		Expenses: make([]ExpensePageItem, 0, len(expenses)),
	}

	corpus := co.loadCorpus(c, id, expenses, &page)
	for i := range expenses {
		page.Expenses = append(page.Expenses, ExpensePageItem{
			Expense:     expenses[i],
			Transferred: duplicate.Exists(&expenses[i], corpus),
		})
	}

	c.JSON(http.StatusOK, page)
}

// loadCorpus fetches the duplicate-detection corpus for a page. Any
// failure degrades to an empty corpus, a missing corpus must never
// block the expense view.
func (co Controller) loadCorpus(c *gin.Context, friendID int64, expenses []expense.Expense, page *ExpensePage) []toshl.Entry {
	anchor, ok := duplicate.Anchor(expenses)
	if !ok {
		return nil
	}
	page.Anchor = anchor.Format("2006-01-02")

	selected, err := models.GetPreference(models.PreferenceSelectedTag)
	if err != nil || co.Sessions.SelectedTag(selected) == nil {
		return nil
	}

	client, err := co.Toshl()
	if err != nil {
		return nil
	}

	key := fmt.Sprintf("%d/%s/%s", friendID, selected, page.Anchor)
	entries, err := co.Corpus.Entries(c.Request.Context(), key, anchor, func(ctx context.Context, from, to time.Time) ([]toshl.Entry, error) {
		return client.Entries(ctx, selected, from, to)
	})
	if err != nil {
		log.Warn().Err(err).Int64("friend", friendID).Msg("duplicate corpus unavailable")
		return nil
	}

	// The range query already filters by tag, this guards the invariant
	// in case the upstream ignores the filter.
	filtered := entries[:0:0]
	for _, entry := range entries {
		if slices.Contains(entry.Tags, selected) {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}
