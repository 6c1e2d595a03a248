package services

import (
	"errors"
	"strings"
	"testing"

	"conference-review-api/models"
)

func TestRenderPerDecisionKind(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, nil, nil)

	feedback := "Strong contribution."
	conditions := "Fix the evaluation section."
	reason := "Outside the conference scope."

	cases := []struct {
		name     string
		decision models.Decision
		subject  string
		contains string
		template string
	}{
		{
			name:     "accept",
			decision: models.Decision{Decision: models.DecisionAccept, FeedbackToAuthors: &feedback},
			subject:  "Paper Acceptance Notification",
			contains: feedback,
			template: "acceptance_email",
		},
		{
			name:     "conditional",
			decision: models.Decision{Decision: models.DecisionConditionalAccept, Conditions: &conditions},
			subject:  "Conditional Acceptance - Action Required",
			contains: conditions,
			template: "conditional_email",
		},
		{
			name:     "desk reject",
			decision: models.Decision{Decision: models.DecisionDeskReject, InternalNotes: &reason},
			subject:  "Desk Rejection Notice",
			contains: reason,
			template: "desk_reject_email",
		},
		{
			name:     "reject",
			decision: models.Decision{Decision: models.DecisionReject, FeedbackToAuthors: &feedback},
			subject:  "Paper Decision Notification",
			contains: feedback,
			template: "rejection_email",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notice := svc.Render(&tc.decision)
			if notice.Subject != tc.subject {
				t.Fatalf("expected subject %q, got %q", tc.subject, notice.Subject)
			}
			if notice.Template != tc.template {
				t.Fatalf("expected template %q, got %q", tc.template, notice.Template)
			}
			if !strings.Contains(notice.Body, tc.contains) {
				t.Fatalf("body %q missing %q", notice.Body, tc.contains)
			}
		})
	}
}

func TestDispatchMarksDecisionNotified(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	author := createUser(t, db, "author@example.org")
	if err := db.Create(&models.PaperAuthor{PaperID: paper.PaperID, UserID: author.UserID, AuthorOrder: 1}).Error; err != nil {
		t.Fatalf("failed to link author: %v", err)
	}

	decisions := NewDecisionService(db, NewAggregationService(db, DefaultPolicy()))
	decision, err := decisions.Create(CreateDecisionInput{PaperID: paper.PaperID, Decision: models.DecisionAccept, DecidedBy: 1})
	if err != nil {
		t.Fatalf("create decision failed: %v", err)
	}

	var sentTo []string
	var sentSubject string
	sender := func(to []string, subject, body string) error {
		sentTo = to
		sentSubject = subject
		return nil
	}

	svc := NewNotificationService(db, decisions, sender)
	marked, err := svc.Dispatch(decision.DecisionID)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(sentTo) != 1 || sentTo[0] != "author@example.org" {
		t.Fatalf("expected mail to the author, got %v", sentTo)
	}
	if sentSubject != "Paper Acceptance Notification" {
		t.Fatalf("unexpected subject %q", sentSubject)
	}
	if !marked.NotificationSent || marked.NotificationID == nil || *marked.NotificationID == "" {
		t.Fatalf("decision not marked notified: %+v", marked)
	}
}

func TestDispatchFailedSendLeavesDecisionUnmarked(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	author := createUser(t, db, "author@example.org")
	if err := db.Create(&models.PaperAuthor{PaperID: paper.PaperID, UserID: author.UserID, AuthorOrder: 1}).Error; err != nil {
		t.Fatalf("failed to link author: %v", err)
	}

	decisions := NewDecisionService(db, NewAggregationService(db, DefaultPolicy()))
	decision, err := decisions.Create(CreateDecisionInput{PaperID: paper.PaperID, Decision: models.DecisionReject, DecidedBy: 1})
	if err != nil {
		t.Fatalf("create decision failed: %v", err)
	}

	sender := func(to []string, subject, body string) error {
		return errors.New("smtp unavailable")
	}

	svc := NewNotificationService(db, decisions, sender)
	if _, err := svc.Dispatch(decision.DecisionID); err == nil {
		t.Fatal("expected dispatch error")
	}

	stored, err := decisions.Get(decision.DecisionID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.NotificationSent || stored.NotificationID != nil {
		t.Fatalf("failed send must not mark the decision: %+v", stored)
	}
}

func TestBulkDispatchCollectsPerDecisionErrors(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	author := createUser(t, db, "author@example.org")
	if err := db.Create(&models.PaperAuthor{PaperID: paper.PaperID, UserID: author.UserID, AuthorOrder: 1}).Error; err != nil {
		t.Fatalf("failed to link author: %v", err)
	}

	decisions := NewDecisionService(db, NewAggregationService(db, DefaultPolicy()))
	decision, err := decisions.Create(CreateDecisionInput{PaperID: paper.PaperID, Decision: models.DecisionAccept, DecidedBy: 1})
	if err != nil {
		t.Fatalf("create decision failed: %v", err)
	}

	sent := 0
	svc := NewNotificationService(db, decisions, func([]string, string, string) error {
		sent++
		return nil
	})

	result, err := svc.BulkDispatch([]int{decision.DecisionID, 404})
	if err != nil {
		t.Fatalf("bulk dispatch failed: %v", err)
	}
	if result.Successful != 1 || result.Failed != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d/%d", result.Successful, result.Failed)
	}
	if sent != 1 {
		t.Fatalf("expected 1 mail sent, got %d", sent)
	}
	if len(result.Errors) != 1 || result.Errors[0].DecisionID != 404 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if !result.Decisions[0].NotificationSent {
		t.Fatalf("dispatched decision not marked: %+v", result.Decisions[0])
	}
}

func TestBulkDispatchRequiresDecisions(t *testing.T) {
	db := newTestDB(t)
	decisions := NewDecisionService(db, NewAggregationService(db, DefaultPolicy()))
	svc := NewNotificationService(db, decisions, func([]string, string, string) error { return nil })

	_, err := svc.BulkDispatch(nil)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDispatchUnknownDecision(t *testing.T) {
	db := newTestDB(t)
	decisions := NewDecisionService(db, NewAggregationService(db, DefaultPolicy()))
	svc := NewNotificationService(db, decisions, func([]string, string, string) error { return nil })

	_, err := svc.Dispatch(404)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
