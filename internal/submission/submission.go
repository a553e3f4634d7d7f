// Package submission assembles create-entry payloads for the target
// service and enforces the single in-flight submission rule.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/splitbridge/backend/internal/expense"
	"github.com/splitbridge/backend/internal/toshl"
)

// Outcome is the terminal state of one submission attempt.
type Outcome uint8

const (
	// Created means the entry was created on the target service.
	Created Outcome = iota
	// Rejected means a client-side precondition failed, no network call
	// was made.
	Rejected
	// Failed means the create call was made and did not succeed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Rejected:
		return "rejected"
	}

	return "failed"
}

var (
	ErrNoCategory           = errors.New("a category must be chosen before submitting")
	ErrDuplicateUnconfirmed = errors.New("this expense looks already transferred, submitting it again requires explicit confirmation")
	ErrInFlight             = errors.New("another submission is still in flight")
)

// EntryCreator creates one entry on the target service.
type EntryCreator interface {
	CreateEntry(ctx context.Context, entry toshl.Entry) error
}

// Request is one submission attempt.
type Request struct {
	Expense       expense.Expense
	CategoryID    string
	TagIDs        []string
	SelectedTagID string

	// DuplicateDetected is set when the duplicate detector matched this
	// expense. DuplicateConfirmed is the user's explicit decision to
	// proceed anyway.
	DuplicateDetected  bool
	DuplicateConfirmed bool
}

// Submitter allows one submission at a time. A call arriving while
// another submission is pending is refused, not queued.
type Submitter struct {
	mu         sync.Mutex
	submitting bool
}

// Submit validates the request and creates the entry.
func (s *Submitter) Submit(ctx context.Context, entries EntryCreator, req Request) (Outcome, error) {
	if req.CategoryID == "" {
		return Rejected, ErrNoCategory
	}

	if req.DuplicateDetected && !req.DuplicateConfirmed {
		return Rejected, ErrDuplicateUnconfirmed
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return Rejected, ErrInFlight
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	payload := Build(req.Expense, req.CategoryID, req.TagIDs, req.SelectedTagID)
	reference := uuid.New()

	if err := entries.CreateEntry(ctx, payload); err != nil {
		log.Error().Err(err).Str("reference", reference.String()).Int64("expense", req.Expense.ID).Msg("submission failed")
		return Failed, fmt.Errorf("creating entry: %w", err)
	}

	log.Info().
		Str("reference", reference.String()).
		Int64("expense", req.Expense.ID).
		Str("amount", payload.Amount.String()).
		Str("currency", payload.Currency.Code).
		Msg("entry created")

	return Created, nil
}

// Build assembles the create-entry payload.
//
// The amount is the negated absolute value of the share, the caller's
// share always records as an expense regardless of sign anomalies
// upstream. The tag list is the selected default tag prepended to the
// chosen tags, with empty ids dropped.
func Build(e expense.Expense, categoryID string, tagIDs []string, selectedTagID string) toshl.Entry {
	tags := make([]string, 0, len(tagIDs)+1)
	for _, id := range append([]string{selectedTagID}, tagIDs...) {
		if id == "" {
			continue
		}
		tags = append(tags, id)
	}

	return toshl.Entry{
		Amount:   e.ShareAmount.Abs().Neg(),
		Currency: toshl.Currency{Code: e.Currency},
		Date:     e.Date,
		Desc:     e.Description,
		Category: categoryID,
		Tags:     tags,
		Extra: &toshl.Extra{
			ExpenseID: toshl.FlexID(strconv.FormatInt(e.ID, 10)),
			Friends:   e.Friends,
		},
	}
}
