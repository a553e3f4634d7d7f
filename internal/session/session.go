// Package session establishes the two authenticated remote sessions and
// owns the reference data fetched from the target service.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/splitbridge/backend/internal/splitwise"
	"github.com/splitbridge/backend/internal/toshl"
)

// State is the lifecycle state of the account session.
type State uint8

const (
	// Unset means no load has been attempted, or credentials are missing.
	Unset State = iota
	// Loading means the identity and reference fetches are in flight.
	Loading
	// Set means both identities resolved and reference data is available.
	Set
	// Invalid means at least one fetch failed or returned incomplete data.
	Invalid
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Set:
		return "set"
	case Invalid:
		return "invalid"
	}

	return "unset"
}

var (
	ErrMissingCredentials = errors.New("both API keys must be configured before accounts can be loaded")
	ErrUpstreamInvalid    = errors.New("could not load accounts from Splitwise and Toshl")
)

// SourceIdentity is the authenticated Splitwise user.
type SourceIdentity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// TargetIdentity is the authenticated Toshl user.
type TargetIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Category is an expense category of the target service.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usageCount"`
}

// Tag is an expense tag of the target service. The category reference is
// weak, CategoryID may be empty or dangling.
type Tag struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	UsageCount int    `json:"usageCount"`
}

// SourceClient is the part of the Splitwise API the session needs.
type SourceClient interface {
	CurrentUser(ctx context.Context) (splitwise.User, error)
}

// TargetClient is the part of the Toshl API the session needs.
type TargetClient interface {
	Me(ctx context.Context) (toshl.User, error)
	Categories(ctx context.Context) ([]toshl.Category, error)
	Tags(ctx context.Context) ([]toshl.Tag, error)
}

// CredentialSource returns the stored API keys. An absent key is the
// empty string, not an error.
type CredentialSource func() (sourceKey, targetKey string, err error)

// Store holds the session for the lifetime of the process. It is the
// only component that mutates the session state, the identities and the
// reference data.
type Store struct {
	mu sync.Mutex

	credentials CredentialSource
	newSource   func(apiKey string) SourceClient
	newTarget   func(apiKey string) TargetClient

	state      State
	source     SourceIdentity
	target     TargetIdentity
	categories []Category
	tags       []Tag
}

// New creates a session store in state Unset.
func New(credentials CredentialSource, newSource func(apiKey string) SourceClient, newTarget func(apiKey string) TargetClient) *Store {
	return &Store{
		credentials: credentials,
		newSource:   newSource,
		newTarget:   newTarget,
	}
}

// LoadAccounts authenticates against both services and fetches the
// reference data. It reports whether the session reached Set.
//
// With a missing credential it returns false without touching the state,
// the caller is responsible for prompting for keys. Otherwise the state
// goes to Loading, the four fetches run concurrently, and the state goes
// to Set only if all of them succeed and both identities carry a
// non-empty id and email. Any other outcome is Invalid, there is no
// partial success.
func (s *Store) LoadAccounts(ctx context.Context) bool {
	sourceKey, targetKey, err := s.credentials()
	if err != nil {
		log.Error().Err(err).Msg("session: reading credentials")
		return false
	}

	if sourceKey == "" || targetKey == "" {
		return false
	}

	s.setState(Loading)

	source := s.newSource(sourceKey)
	target := s.newTarget(targetKey)

	var (
		sourceUser    splitwise.User
		sourceUserErr error
		targetUser    toshl.User
		targetUserErr error
		categories    []toshl.Category
		categoriesErr error
		tags          []toshl.Tag
		tagsErr       error
	)

	// The four fetches are independent. The state transition is a join:
	// it is only evaluated once all of them have settled.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		sourceUser, sourceUserErr = source.CurrentUser(ctx)
	}()
	go func() {
		defer wg.Done()
		targetUser, targetUserErr = target.Me(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, categoriesErr = target.Categories(ctx)
	}()
	go func() {
		defer wg.Done()
		tags, tagsErr = target.Tags(ctx)
	}()
	wg.Wait()

	for _, err := range []error{sourceUserErr, targetUserErr, categoriesErr, tagsErr} {
		if err != nil {
			log.Error().Err(err).Msg("session: account load failed")
			s.setState(Invalid)
			return false
		}
	}

	if sourceUser.ID == 0 || sourceUser.Email == "" || targetUser.ID == "" || targetUser.Email == "" {
		log.Error().Msg("session: identity response is missing id or email")
		s.setState(Invalid)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = SourceIdentity{ID: sourceUser.ID, Email: sourceUser.Email}
	s.target = TargetIdentity{ID: targetUser.ID, Email: targetUser.Email}
	s.categories = filterCategories(categories)
	s.tags = filterTags(tags)
	s.state = Set

	log.Info().
		Str("splitwise", s.source.Email).
		Str("toshl", s.target.Email).
		Int("categories", len(s.categories)).
		Int("tags", len(s.tags)).
		Msg("session: accounts loaded")

	return true
}

// Invalidate forces the session back to Unset, e.g. after credentials
// changed. The next LoadAccounts re-evaluates everything.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Unset
	s.source = SourceIdentity{}
	s.target = TargetIdentity{}
	s.categories = nil
	s.tags = nil
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Source returns the Splitwise identity.
func (s *Store) Source() SourceIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Target returns the Toshl identity.
func (s *Store) Target() TargetIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Categories returns a copy of the fetched categories, most used first.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]Category, len(s.categories))
	copy(categories, s.categories)

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].UsageCount > categories[j].UsageCount
	})

	return categories
}

// Tags returns a copy of the fetched tags in upstream order.
func (s *Store) Tags() []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]Tag, len(s.tags))
	copy(tags, s.tags)

	return tags
}

// SelectedTag resolves a stored tag id against the fetched tags. A stale
// id that no longer matches any tag resolves to nil, never to a dangling
// tag.
func (s *Store) SelectedTag(id string) *Tag {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range s.tags {
		if tag.ID == id {
			t := tag
			return &t
		}
	}

	return nil
}

// Only records that are not soft-deleted and are expense-typed are
// retained. This is a hard invariant of the reference data, not a UI
// preference.

func filterCategories(raw []toshl.Category) []Category {
	categories := make([]Category, 0, len(raw))
	for _, c := range raw {
		if c.Deleted || c.Type != "expense" {
			continue
		}

		categories = append(categories, Category{
			ID:         c.ID,
			Name:       c.Name,
			UsageCount: c.Counts.Entries,
		})
	}

	return categories
}

func filterTags(raw []toshl.Tag) []Tag {
	tags := make([]Tag, 0, len(raw))
	for _, t := range raw {
		if t.Deleted || t.Type != "expense" {
			continue
		}

		tags = append(tags, Tag{
			ID:         t.ID,
			CategoryID: t.Category,
			Name:       t.Name,
			UsageCount: t.Counts.Entries,
		})
	}

	return tags
}
