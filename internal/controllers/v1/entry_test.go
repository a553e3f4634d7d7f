package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"

	v1 "github.com/splitbridge/backend/internal/controllers/v1"
	"github.com/splitbridge/backend/internal/expense"
	"github.com/splitbridge/backend/test"
)

func entryCreateBody() v1.EntryCreate {
	return v1.EntryCreate{
		Expense: expense.Expense{
			ID:          7,
			Category:    "Food",
			Description: "Groceries",
			Currency:    "EUR",
			Date:        "2024-03-01",
			ShareAmount: decimal.RequireFromString("60.00"),
			Friends:     []string{"Grace Hopper"},
			Involved:    true,
		},
		CategoryID: "cat-food",
		TagIDs:     []string{"tag-travel"},
	}
}

func (suite *TestSuiteStandard) TestCreateEntry() {
	suite.loadSession()

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", entryCreateBody())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.EntryCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("created", response.Outcome)
	suite.Assert().Nil(response.Error)

	suite.Require().Len(suite.createdEntries, 1)
	body := suite.createdEntries[0]
	suite.Assert().Contains(body, `"amount":"-60"`)
	suite.Assert().Contains(body, `"date":"2024-03-01"`)
	suite.Assert().Contains(body, `"expense_id":7`)
	suite.Assert().Contains(body, `"friends":["Grace Hopper"]`)
	suite.Assert().Contains(body, `"tags":["tag-travel"]`)
}

// The selected default tag is prepended to the chosen tags.
func (suite *TestSuiteStandard) TestCreateEntrySelectedTagPrepended() {
	suite.loadSession()
	suite.selectTag("tag-groceries")

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", entryCreateBody())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	suite.Require().Len(suite.createdEntries, 1)
	suite.Assert().Contains(suite.createdEntries[0], `"tags":["tag-groceries","tag-travel"]`)
}

// Without a chosen category the submission is refused before any
// network call.
func (suite *TestSuiteStandard) TestCreateEntryNoCategory() {
	suite.loadSession()

	body := entryCreateBody()
	body.CategoryID = ""

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", body)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.EntryCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("rejected", response.Outcome)
	suite.Require().NotNil(response.Error)

	suite.Assert().Empty(suite.createdEntries)
}

// A detected duplicate needs explicit confirmation.
func (suite *TestSuiteStandard) TestCreateEntryDuplicateUnconfirmed() {
	suite.loadSession()

	body := entryCreateBody()
	body.DuplicateDetected = true

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", body)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	suite.Assert().Empty(suite.createdEntries)
}

func (suite *TestSuiteStandard) TestCreateEntryDuplicateConfirmed() {
	suite.loadSession()

	body := entryCreateBody()
	body.DuplicateDetected = true
	body.DuplicateConfirmed = true

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", body)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	suite.Require().Len(suite.createdEntries, 1)
}

func (suite *TestSuiteStandard) TestCreateEntryUpstreamError() {
	suite.loadSession()

	handler := suite.toshlHandler
	suite.toshlHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/entries" && r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		handler(w, r)
	}

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", entryCreateBody())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadGateway)

	var response v1.EntryCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("failed", response.Outcome)
	suite.Require().NotNil(response.Error)
}

func (suite *TestSuiteStandard) TestCreateEntryWithoutKeys() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", entryCreateBody())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPreconditionFailed)
}

func (suite *TestSuiteStandard) TestCreateEntryEmptyBody() {
	suite.loadSession()

	recorder := test.Request(suite.T(), suite.engine, http.MethodPost, "/v1/entries", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
