package controllers

import (
	"database/sql/driver"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"conference-management-api/config"
	"conference-management-api/internal/dbtest"

	"github.com/gin-gonic/gin"
)

func authorSubmissionStep() *dbtest.Step {
	return &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(`SELECT .* FROM .submissions. WHERE submission_id = \? AND author_id = \? AND deleted_at IS NULL`),
		Columns: []string{"submission_id", "author_id", "conference_id", "status", "revision_count"},
		Rows:    [][]driver.Value{{int64(7), int64(10), int64(1), "revision", int64(1)}},
	}
}

func updateRequest(t *testing.T, steps []*dbtest.Step) (*httptest.ResponseRecorder, *dbtest.Script) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, script, cleanup := dbtest.NewDB(t, steps)
	t.Cleanup(cleanup)

	previous := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = previous })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/submissions/7",
		strings.NewReader(`{"title":"Revised results"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Set("userID", 10)

	UpdateSubmission(c)
	return w, script
}

// A revision re-upload writes the submission first and only then appends the
// status-history row; the script enforces that order.
func TestUpdateSubmissionWritesHistoryAfterUpdate(t *testing.T) {
	w, script := updateRequest(t, []*dbtest.Step{
		authorSubmissionStep(),
		{
			Kind:    dbtest.Exec,
			Pattern: regexp.MustCompile(`UPDATE .submissions. SET`),
			Result:  dbtest.ExecResult{Affected: 1},
		},
		{
			Kind:    dbtest.Exec,
			Pattern: regexp.MustCompile(`INSERT INTO .submission_status_history.`),
			Result:  dbtest.ExecResult{InsertID: 1, Affected: 1},
		},
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}
	script.VerifyComplete(t)
}

// When the submission update fails, no history row may be recorded.
func TestUpdateSubmissionFailedUpdateLeavesNoHistory(t *testing.T) {
	w, script := updateRequest(t, []*dbtest.Step{
		authorSubmissionStep(),
		{
			Kind:    dbtest.Exec,
			Pattern: regexp.MustCompile(`UPDATE .submissions. SET`),
			Err:     errors.New("update failed"),
		},
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	script.VerifyComplete(t)
}
