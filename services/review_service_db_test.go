package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"conference-management-api/internal/dbtest"
)

func errDuplicateEntry(entry, key string) error {
	return fmt.Errorf("Error 1062 (23000): Duplicate entry '%s' for key '%s'", entry, key)
}

func emptyStep(pattern string, columns ...string) *dbtest.Step {
	return &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(pattern),
		Columns: columns,
	}
}

// Two reviewers racing to create the first review for the same pair both
// pass the existence check; the loser's insert hits
// uq_review_submission_reviewer and must surface as a conflict.
func TestSubmitReviewDuplicateInsertIsConflict(t *testing.T) {
	db, script, cleanup := dbtest.NewDB(t, []*dbtest.Step{
		{
			Kind:    dbtest.Query,
			Pattern: regexp.MustCompile(`SELECT .* FROM .submissions. WHERE submission_id = \? AND deleted_at IS NULL`),
			Columns: []string{"submission_id", "conference_id", "track_id", "author_id", "status", "title"},
			Rows:    [][]driver.Value{{int64(7), int64(1), int64(2), int64(10), "under_review", "Efficient Parsing"}},
		},
		emptyStep(`SELECT .* FROM .submission_reviewers. WHERE`, "submission_id"),
		emptyStep(`SELECT .* FROM .users. WHERE`, "user_id"),
		emptyStep(`SELECT .* FROM .submission_authors. WHERE`, "submission_id"),
		emptyStep(`SELECT .* FROM .conferences. WHERE`, "conference_id"),
		{
			Kind:    dbtest.Query,
			Pattern: regexp.MustCompile(`SELECT .* FROM .tracks. WHERE track_id = \? AND delete_at IS NULL`),
			Columns: []string{"track_id", "conference_id"},
			Rows:    [][]driver.Value{{int64(2), int64(1)}},
		},
		emptyStep(`SELECT .* FROM .reviews. WHERE submission_id = \? AND reviewer_id = \?`, "review_id"),
		{
			Kind:    dbtest.Exec,
			Pattern: regexp.MustCompile(`INSERT INTO .reviews.`),
			Err:     errDuplicateEntry("7-42", "uq_review_submission_reviewer"),
		},
	})
	defer cleanup()

	service := NewReviewService(db)
	_, err := service.SubmitReview(42, 7, ReviewInput{
		Score:             8,
		Comments:          "Solid work",
		RawRecommendation: "accept",
	})
	if err == nil {
		t.Fatal("expected an error for the duplicate insert")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Status != http.StatusConflict {
		t.Errorf("status = %d, want %d", reqErr.Status, http.StatusConflict)
	}
	if reqErr.Message != "A review by you already exists for this submission" {
		t.Errorf("message = %q", reqErr.Message)
	}

	script.VerifyComplete(t)
}
