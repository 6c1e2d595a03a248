package services

import (
	"fmt"

	"conference-review-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MailSender delivers a rendered notification. Transport lives outside the
// workflow; config.SendMail satisfies this in production and tests inject
// their own.
type MailSender func(to []string, subject, body string) error

// DecisionNotice is a rendered decision notification handed to the mailer.
type DecisionNotice struct {
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	Template     string `json:"template"`
	DecisionType string `json:"decision_type"`
}

// NotificationService renders per-kind decision notices and records
// dispatch on the decision. A failed send leaves the decision unmarked so
// the caller can retry without re-running decision logic.
type NotificationService struct {
	db        *gorm.DB
	decisions *DecisionService
	send      MailSender
}

func NewNotificationService(db *gorm.DB, decisions *DecisionService, send MailSender) *NotificationService {
	return &NotificationService{db: db, decisions: decisions, send: send}
}

// Render builds the notice for a decision.
func (s *NotificationService) Render(decision *models.Decision) DecisionNotice {
	feedback := ""
	if decision.FeedbackToAuthors != nil {
		feedback = *decision.FeedbackToAuthors
	}

	switch decision.Decision {
	case models.DecisionAccept:
		return DecisionNotice{
			Subject:      "Paper Acceptance Notification",
			Template:     "acceptance_email",
			Body:         fmt.Sprintf("Congratulations! Your paper has been accepted.\n\nFeedback: %s", feedback),
			DecisionType: "accepted",
		}
	case models.DecisionConditionalAccept:
		conditions := ""
		if decision.Conditions != nil {
			conditions = *decision.Conditions
		}
		return DecisionNotice{
			Subject:      "Conditional Acceptance - Action Required",
			Template:     "conditional_email",
			Body:         fmt.Sprintf("Your paper has been conditionally accepted. Please address the following:\n\n%s", conditions),
			DecisionType: "conditional",
		}
	case models.DecisionDeskReject:
		reason := ""
		if decision.InternalNotes != nil {
			reason = *decision.InternalNotes
		}
		return DecisionNotice{
			Subject:      "Desk Rejection Notice",
			Template:     "desk_reject_email",
			Body:         fmt.Sprintf("Your paper has been desk rejected.\n\nReason: %s", reason),
			DecisionType: "desk_rejected",
		}
	default:
		return DecisionNotice{
			Subject:      "Paper Decision Notification",
			Template:     "rejection_email",
			Body:         fmt.Sprintf("Thank you for your submission. Unfortunately, your paper was not accepted.\n\nFeedback: %s", feedback),
			DecisionType: "rejected",
		}
	}
}

// Dispatch renders the decision's notice, mails it to the paper's authors
// and marks the decision notified with a fresh dispatch id.
func (s *NotificationService) Dispatch(decisionID int) (*models.Decision, error) {
	decision, err := s.decisions.Get(decisionID)
	if err != nil {
		return nil, err
	}

	recipients, err := s.authorEmails(decision.PaperID)
	if err != nil {
		return nil, err
	}

	notice := s.Render(decision)
	if err := s.send(recipients, notice.Subject, notice.Body); err != nil {
		return nil, fmt.Errorf("failed to send decision notification: %w", err)
	}

	return s.decisions.MarkNotificationSent(decisionID, uuid.NewString())
}

// BulkNotificationError ties a failed decision to its reason.
type BulkNotificationError struct {
	DecisionID int    `json:"decision_id"`
	Error      string `json:"error"`
}

// BulkDispatchResult reports the outcome of a batch notification run.
type BulkDispatchResult struct {
	Successful int                     `json:"successful"`
	Failed     int                     `json:"failed"`
	Decisions  []models.Decision       `json:"decisions"`
	Errors     []BulkNotificationError `json:"errors,omitempty"`
}

// BulkDispatch dispatches notifications for the decisions, collecting
// per-decision failures instead of aborting the batch. Failed decisions stay
// unmarked and can be retried.
func (s *NotificationService) BulkDispatch(decisionIDs []int) (*BulkDispatchResult, error) {
	if len(decisionIDs) == 0 {
		return nil, &ValidationError{Message: "decision_ids is required"}
	}

	result := &BulkDispatchResult{}
	for _, decisionID := range decisionIDs {
		decision, err := s.Dispatch(decisionID)
		if err != nil {
			result.Errors = append(result.Errors, BulkNotificationError{DecisionID: decisionID, Error: err.Error()})
			continue
		}
		result.Decisions = append(result.Decisions, *decision)
	}
	result.Successful = len(result.Decisions)
	result.Failed = len(result.Errors)
	return result, nil
}

func (s *NotificationService) authorEmails(paperID int) ([]string, error) {
	var emails []string
	err := s.db.Model(&models.PaperAuthor{}).
		Joins("JOIN users ON users.user_id = paper_authors.user_id").
		Where("paper_authors.paper_id = ?", paperID).
		Pluck("users.email", &emails).Error
	return emails, err
}
