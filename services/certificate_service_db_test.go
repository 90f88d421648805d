package services

import (
	"database/sql/driver"
	"regexp"
	"testing"

	"conference-management-api/internal/dbtest"
	"conference-management-api/models"
)

func conferenceLookupStep() *dbtest.Step {
	return &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(`SELECT .* FROM .conferences. WHERE conference_id = \? AND delete_at IS NULL`),
		Columns: []string{"conference_id", "name", "organizer_id"},
		Rows:    [][]driver.Value{{int64(1), "ICSE 2026", int64(3)}},
	}
}

func acceptedSubmissionsStep(rows [][]driver.Value) *dbtest.Step {
	return &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(`SELECT .* FROM .submissions. WHERE conference_id = \? AND status = \? AND author_attendance_marked = 1`),
		Columns: []string{"submission_id", "title", "author_id", "conference_id", "status"},
		Rows:    rows,
	}
}

func attendedRegistrationsStep(rows [][]driver.Value) *dbtest.Step {
	return &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(`SELECT .* FROM .registrations. WHERE conference_id = \? AND attendance_marked = 1`),
		Args:    []driver.Value{int64(1)},
		Columns: []string{"registration_id", "conference_id", "user_id"},
		Rows:    rows,
	}
}

func finalizedReviewsStep() *dbtest.Step {
	return &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(`SELECT .* FROM .reviews. JOIN submissions`),
		Columns: []string{"review_id", "reviewer_id", "status", "recommendation"},
	}
}

// A second generation run for an unchanged eligible set must create nothing:
// the existing-certificate lookup short-circuits before any insert.
func TestGenerateForConferenceSecondRunCreatesNothing(t *testing.T) {
	certificateCountPattern := regexp.MustCompile(
		`SELECT count\(\*\) FROM .certificates. WHERE user_id = \? AND conference_id = \? AND type = \? AND submission_id = \?`)
	participant := [][]driver.Value{{int64(5), int64(1), int64(10)}}
	participantUser := &dbtest.Step{
		Kind:    dbtest.Query,
		Pattern: regexp.MustCompile(`SELECT .* FROM .users. WHERE`),
		Columns: []string{"user_id", "user_fname", "user_lname"},
		Rows:    [][]driver.Value{{int64(10), "Ada", "Lovelace"}},
	}

	db, script, cleanup := dbtest.NewDB(t, []*dbtest.Step{
		// first run: one attendee, no certificate yet
		conferenceLookupStep(),
		acceptedSubmissionsStep(nil),
		attendedRegistrationsStep(participant),
		participantUser,
		{
			Kind:    dbtest.Query,
			Pattern: certificateCountPattern,
			Args:    []driver.Value{int64(10), int64(1), models.CertificateTypeParticipation, int64(0)},
			Columns: []string{"count(*)"},
			Rows:    [][]driver.Value{{int64(0)}},
		},
		{
			Kind:    dbtest.Exec,
			Pattern: regexp.MustCompile(`INSERT INTO .certificates.`),
			Result:  dbtest.ExecResult{InsertID: 1, Affected: 1},
		},
		finalizedReviewsStep(),
		// second run: the certificate now exists, no insert may follow
		conferenceLookupStep(),
		acceptedSubmissionsStep(nil),
		attendedRegistrationsStep(participant),
		participantUser,
		{
			Kind:    dbtest.Query,
			Pattern: certificateCountPattern,
			Args:    []driver.Value{int64(10), int64(1), models.CertificateTypeParticipation, int64(0)},
			Columns: []string{"count(*)"},
			Rows:    [][]driver.Value{{int64(1)}},
		},
		finalizedReviewsStep(),
	})
	defer cleanup()

	service := NewCertificateService(db)

	first, err := service.GenerateForConference(1)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.ParticipationCreated != 1 || first.Skipped != 0 {
		t.Errorf("first run: created %d, skipped %d, want 1 and 0",
			first.ParticipationCreated, first.Skipped)
	}
	if len(first.Errors) != 0 {
		t.Errorf("first run errors: %v", first.Errors)
	}

	second, err := service.GenerateForConference(1)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.ParticipationCreated != 0 || second.Skipped != 1 {
		t.Errorf("second run: created %d, skipped %d, want 0 and 1",
			second.ParticipationCreated, second.Skipped)
	}
	if len(second.Errors) != 0 {
		t.Errorf("second run errors: %v", second.Errors)
	}

	script.VerifyComplete(t)
}

// A lost race on uq_certificate_identity is not an error: the insert fails
// on the duplicate key and the run counts the identity as skipped.
func TestGenerateForConferenceLostRaceCountsAsSkipped(t *testing.T) {
	db, script, cleanup := dbtest.NewDB(t, []*dbtest.Step{
		conferenceLookupStep(),
		acceptedSubmissionsStep(nil),
		attendedRegistrationsStep([][]driver.Value{{int64(5), int64(1), int64(10)}}),
		{
			Kind:    dbtest.Query,
			Pattern: regexp.MustCompile(`SELECT .* FROM .users. WHERE`),
			Columns: []string{"user_id", "user_fname", "user_lname"},
			Rows:    [][]driver.Value{{int64(10), "Ada", "Lovelace"}},
		},
		{
			Kind:    dbtest.Query,
			Pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .certificates.`),
			Columns: []string{"count(*)"},
			Rows:    [][]driver.Value{{int64(0)}},
		},
		{
			Kind:    dbtest.Exec,
			Pattern: regexp.MustCompile(`INSERT INTO .certificates.`),
			Err:     errDuplicateEntry("10-1-participation-0", "uq_certificate_identity"),
		},
		finalizedReviewsStep(),
	})
	defer cleanup()

	result, err := NewCertificateService(db).GenerateForConference(1)
	if err != nil {
		t.Fatalf("GenerateForConference: %v", err)
	}
	if result.ParticipationCreated != 0 || result.Skipped != 1 {
		t.Errorf("created %d, skipped %d, want 0 and 1", result.ParticipationCreated, result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors: %v", result.Errors)
	}

	script.VerifyComplete(t)
}
