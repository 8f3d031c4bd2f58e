// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commonground-app/server/models"
	"github.com/commonground-app/server/router"
	"github.com/commonground-app/server/testutil"
)

func TestCreateAccount(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/accounts", models.CreateAccountRequest{
		DisplayName: "Jordan",
	}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateAccountResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.AccountID == "" {
		t.Error("expected a non-empty account id")
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())

	badThreshold := 1.5
	cases := []struct {
		name string
		body models.CreateAccountRequest
	}{
		{"missing name", models.CreateAccountRequest{}},
		{"name too short", models.CreateAccountRequest{DisplayName: "J"}},
		{"threshold out of range", models.CreateAccountRequest{DisplayName: "Jordan", MatchThreshold: &badThreshold}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/accounts", tc.body, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestGetAccount(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())
	accountID := testutil.CreateTestAccount(t, store, "Jordan", true)

	req := testutil.MakeRequest("GET", "/accounts/"+accountID, nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var account models.Account
	testutil.AssertJSON(t, w, &account)
	if account.ID != accountID {
		t.Errorf("expected id %s, got %s", accountID, account.ID)
	}
	if account.DisplayName != "Jordan" {
		t.Errorf("expected display name Jordan, got %s", account.DisplayName)
	}
	if !account.Discoverable {
		t.Error("expected account to be discoverable")
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/accounts/nope", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())
	accountID := testutil.CreateTestAccount(t, store, "Jordan", true)

	discoverable := false
	threshold := 0.7
	req := testutil.MakeRequest("PUT", "/accounts/"+accountID+"/preferences", models.UpdatePreferencesRequest{
		Discoverable:   &discoverable,
		MatchThreshold: &threshold,
	}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var account models.Account
	testutil.AssertJSON(t, w, &account)
	if account.Discoverable {
		t.Error("expected account to be hidden after update")
	}
	if account.MatchThreshold == nil || *account.MatchThreshold != 0.7 {
		t.Errorf("expected threshold 0.7, got %v", account.MatchThreshold)
	}
}

func TestUpdatePreferences_NothingToUpdate(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())
	accountID := testutil.CreateTestAccount(t, store, "Jordan", true)

	req := testutil.MakeRequest("PUT", "/accounts/"+accountID+"/preferences", models.UpdatePreferencesRequest{}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestUpdatePreferences_NotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := router.NewRouter(store, testutil.GetTestConfig())

	discoverable := false
	req := testutil.MakeRequest("PUT", "/accounts/nope/preferences", models.UpdatePreferencesRequest{
		Discoverable: &discoverable,
	}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
