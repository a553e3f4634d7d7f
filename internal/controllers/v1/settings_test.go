package v1_test

import (
	"net/http"

	v1 "github.com/splitbridge/backend/internal/controllers/v1"
	"github.com/splitbridge/backend/test"
)

func (suite *TestSuiteStandard) TestGetKeysEmpty() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/settings/keys", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var keys v1.MaskedKeys
	test.DecodeResponse(suite.T(), &recorder, &keys)
	suite.Assert().Empty(keys.Splitwise)
	suite.Assert().Empty(keys.Toshl)
}

// Stored keys are only ever returned in masked form.
func (suite *TestSuiteStandard) TestUpdateKeysMasked() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/keys", v1.Keys{
		Splitwise: "splitwise-key-NzBcjswGNbq",
		Toshl:     "short",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/settings/keys", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var keys v1.MaskedKeys
	test.DecodeResponse(suite.T(), &recorder, &keys)
	suite.Assert().Equal("*************NzBcjswGNbq", keys.Splitwise)
	suite.Assert().Equal("*************short", keys.Toshl)
}

func (suite *TestSuiteStandard) TestUpdateKeysIncomplete() {
	tests := []struct {
		name string
		keys v1.Keys
	}{
		{"no keys", v1.Keys{}},
		{"splitwise only", v1.Keys{Splitwise: "key"}},
		{"toshl only", v1.Keys{Toshl: "key"}},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/keys", tt.keys)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestUpdateKeysEmptyBody() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/keys", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// Changing the credentials drops the loaded session, the next load
// re-authenticates.
func (suite *TestSuiteStandard) TestUpdateKeysInvalidatesSession() {
	suite.loadSession()

	recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/keys", v1.Keys{
		Splitwise: "new-splitwise-key",
		Toshl:     "new-toshl-key",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/session", "")

	var status v1.SessionStatus
	test.DecodeResponse(suite.T(), &recorder, &status)
	suite.Assert().Equal("unset", status.State)
}

func (suite *TestSuiteStandard) TestGetSelectedTagUnset() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/settings/tag", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SelectedTagResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.ID)
	suite.Assert().Nil(response.Tag)
}

func (suite *TestSuiteStandard) TestUpdateSelectedTag() {
	suite.loadSession()

	recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/tag", v1.SelectedTagResponse{ID: "tag-groceries"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SelectedTagResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("tag-groceries", response.ID)
	suite.Require().NotNil(response.Tag)
	suite.Assert().Equal("groceries", response.Tag.Name)

	recorder = test.Request(suite.T(), suite.engine, http.MethodGet, "/v1/settings/tag", "")
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("tag-groceries", response.ID)
}

// A tag id that does not resolve against the fetched tags is refused,
// stale preferences must not be stored.
func (suite *TestSuiteStandard) TestUpdateSelectedTagUnknown() {
	suite.loadSession()

	recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/tag", v1.SelectedTagResponse{ID: "tag-nope"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateSelectedTagWithoutSession() {
	recorder := test.Request(suite.T(), suite.engine, http.MethodPut, "/v1/settings/tag", v1.SelectedTagResponse{ID: "tag-groceries"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestOptionsSettings() {
	for _, path := range []string{"/v1/settings/keys", "/v1/settings/tag"} {
		recorder := test.Request(suite.T(), suite.engine, http.MethodOptions, path, "")
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
		suite.Assert().Equal("GET, PUT", recorder.Header().Get("allow"))
	}
}
