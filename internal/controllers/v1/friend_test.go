package v1_test

import (
	"net/http"

	v1 "github.com/splitbridge/backend/internal/controllers/v1"
	"github.com/splitbridge/backend/test"
)

func (suite *TestSuiteStandard) TestGetFriends() {
	suite.storeKeys()

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var friends []v1.Friend
	test.DecodeResponse(suite.T(), &recorder, &friends)

	suite.Require().Len(friends, 2)
	suite.Assert().Equal("Grace Hopper", friends[0].Name)
	suite.Require().Len(friends[0].Balance, 1)
	suite.Assert().Equal("25.00", friends[0].Balance[0].Amount)
	suite.Assert().Equal("Linus", friends[1].Name)
}

func (suite *TestSuiteStandard) TestGetFriendsNameFilter() {
	suite.storeKeys()

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends?name=*hopper*", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var friends []v1.Friend
	test.DecodeResponse(suite.T(), &recorder, &friends)

	suite.Require().Len(friends, 1)
	suite.Assert().Equal("Grace Hopper", friends[0].Name)
}

func (suite *TestSuiteStandard) TestGetFriendsWithoutKeys() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPreconditionFailed)
}

func (suite *TestSuiteStandard) TestGetFriend() {
	suite.storeKeys()

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var friend v1.Friend
	test.DecodeResponse(suite.T(), &recorder, &friend)
	suite.Assert().Equal(int64(202), friend.ID)
	suite.Assert().Equal("Grace Hopper", friend.Name)
}

func (suite *TestSuiteStandard) TestGetFriendInvalidID() {
	suite.storeKeys()

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/grace", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// The expense page requires a loaded session, the caller id is needed to
// compute shares.
func (suite *TestSuiteStandard) TestGetExpensesNotLoaded() {
	suite.storeKeys()

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPreconditionFailed)
}

func (suite *TestSuiteStandard) TestGetExpenses() {
	suite.loadSession()
	suite.selectTag("tag-groceries")

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var page v1.ExpensePage
	test.DecodeResponse(suite.T(), &recorder, &page)

	suite.Assert().Equal(int64(202), page.FriendID)
	suite.Assert().Equal(30, page.Limit)
	suite.Assert().Equal(0, page.Offset)
	suite.Assert().Equal("2024-03-01", page.Anchor)

	suite.Require().Len(page.Expenses, 2)

	groceries := page.Expenses[0]
	suite.Assert().Equal(int64(7), groceries.ID)
	suite.Assert().Equal("60", groceries.ShareAmount.String())
	suite.Assert().True(groceries.Involved)
	suite.Assert().True(groceries.Transferred, "entry-1 carries expense_id 7")

	cinema := page.Expenses[1]
	suite.Assert().Equal(int64(8), cinema.ID)
	suite.Assert().False(cinema.Transferred)
}

func (suite *TestSuiteStandard) TestGetExpensesPaging() {
	suite.loadSession()

	var query string
	handler := suite.splitwiseHandler
	suite.splitwiseHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3.0/get_expenses" {
			query = r.URL.RawQuery
		}
		handler(w, r)
	}

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses?limit=10&offset=20", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Contains(query, "limit=10")
	suite.Assert().Contains(query, "offset=20")

	var page v1.ExpensePage
	test.DecodeResponse(suite.T(), &recorder, &page)
	suite.Assert().Equal(10, page.Limit)
	suite.Assert().Equal(20, page.Offset)
}

// Without a selected tag there is no duplicate corpus and no entry
// fetch, every expense reports transferred=false.
func (suite *TestSuiteStandard) TestGetExpensesNoSelectedTag() {
	suite.loadSession()

	handler := suite.toshlHandler
	suite.toshlHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/entries" && r.Method == http.MethodGet {
			suite.Fail("the corpus must not be fetched without a selected tag")
		}
		handler(w, r)
	}

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var page v1.ExpensePage
	test.DecodeResponse(suite.T(), &recorder, &page)
	for _, e := range page.Expenses {
		suite.Assert().False(e.Transferred)
	}
}

// A failing corpus fetch degrades to transferred=false, the page still
// renders.
func (suite *TestSuiteStandard) TestGetExpensesCorpusUnavailable() {
	suite.loadSession()
	suite.selectTag("tag-groceries")

	handler := suite.toshlHandler
	suite.toshlHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/entries" && r.Method == http.MethodGet {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		handler(w, r)
	}

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var page v1.ExpensePage
	test.DecodeResponse(suite.T(), &recorder, &page)
	suite.Require().Len(page.Expenses, 2)
	for _, e := range page.Expenses {
		suite.Assert().False(e.Transferred)
	}
}

// A malformed record fails the page instead of being silently dropped.
func (suite *TestSuiteStandard) TestGetExpensesMalformedRecord() {
	suite.loadSession()

	handler := suite.splitwiseHandler
	suite.splitwiseHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3.0/get_expenses" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"expenses": [{"id": 9, "cost": "not-a-number", "date": "2024-03-01T00:00:00Z", "category": {"name": "Food"}}]}`))
			return
		}
		handler(w, r)
	}

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadGateway)
}

func (suite *TestSuiteStandard) TestGetExpensesUpstreamDown() {
	suite.loadSession()

	suite.splitwiseHandler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/friends/202/expenses", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadGateway)
}
