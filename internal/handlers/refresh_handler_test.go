package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"folio/internal/refresher"
)

type mockRefreshRunner struct {
	runFn func(ctx context.Context) (*refresher.RunResult, error)
}

func (m *mockRefreshRunner) Run(ctx context.Context) (*refresher.RunResult, error) {
	return m.runFn(ctx)
}

func TestRefreshHandler_Run(t *testing.T) {
	setup := func(runner RefreshRunner) *gin.Engine {
		r := gin.New()
		r.POST("/internal/refresh", NewRefreshHandler(runner).Run)
		return r
	}

	t.Run("returns the run summary", func(t *testing.T) {
		runner := &mockRefreshRunner{runFn: func(context.Context) (*refresher.RunResult, error) {
			return &refresher.RunResult{UsersScanned: 3, Repriced: 2, Errors: []refresher.UserError{{UserID: "u", Reason: "x"}}}, nil
		}}

		rec := doRequest(setup(runner), "POST", "/internal/refresh", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["usersScanned"].(float64) != 3 || result["repriced"].(float64) != 2 {
			t.Errorf("unexpected summary: %v", result)
		}
	})

	t.Run("returns 409 while running", func(t *testing.T) {
		runner := &mockRefreshRunner{runFn: func(context.Context) (*refresher.RunResult, error) {
			return nil, refresher.ErrAlreadyRunning
		}}

		rec := doRequest(setup(runner), "POST", "/internal/refresh", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REFRESH_RUNNING")
	})

	t.Run("returns 500 on listing failure", func(t *testing.T) {
		runner := &mockRefreshRunner{runFn: func(context.Context) (*refresher.RunResult, error) {
			return nil, errors.New("db gone")
		}}

		rec := doRequest(setup(runner), "POST", "/internal/refresh", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
