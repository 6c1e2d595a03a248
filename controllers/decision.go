package controllers

import (
	"net/http"

	"conference-review-api/config"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

func newDecisionService() *services.DecisionService {
	aggregation := services.NewAggregationService(config.DB, services.DefaultPolicy())
	return services.NewDecisionService(config.DB, aggregation)
}

// AggregateReviews returns the statistical summary of a paper's completed
// reviews. Read-only.
func AggregateReviews(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	agg, err := services.NewAggregationService(config.DB, services.DefaultPolicy()).Aggregate(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"aggregation": agg,
	})
}

// CreateDecision records a manual decision for a paper.
func CreateDecision(c *gin.Context) {
	var req struct {
		PaperID           int      `json:"paper_id" binding:"required"`
		Decision          string   `json:"decision" binding:"required"`
		AvgScore          *float64 `json:"avg_score"`
		ReviewCount       *int     `json:"review_count"`
		InternalNotes     *string  `json:"internal_notes"`
		MetaReview        *string  `json:"meta_review"`
		FeedbackToAuthors *string  `json:"feedback_to_authors"`
		Conditions        *string  `json:"conditions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decision, err := newDecisionService().Create(services.CreateDecisionInput{
		PaperID:           req.PaperID,
		Decision:          req.Decision,
		DecidedBy:         userID,
		AvgScore:          req.AvgScore,
		ReviewCount:       req.ReviewCount,
		InternalNotes:     req.InternalNotes,
		MetaReview:        req.MetaReview,
		FeedbackToAuthors: req.FeedbackToAuthors,
		Conditions:        req.Conditions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// AutoDecide aggregates a paper's reviews and records the recommended
// decision with a frozen statistics snapshot.
func AutoDecide(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decision, err := newDecisionService().AutoDecide(paperID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// BulkAutoDecide records recommended decisions for a batch of papers,
// collecting per-paper failures instead of aborting the run.
func BulkAutoDecide(c *gin.Context) {
	var req struct {
		PaperIDs []int `json:"paper_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := newDecisionService().BulkAutoDecide(req.PaperIDs, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"result":  result,
	})
}

// DeskRejectPaper rejects a paper editorially, bypassing review aggregation.
func DeskRejectPaper(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decision, err := newDecisionService().DeskReject(paperID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// GetDecision returns a decision by id.
func GetDecision(c *gin.Context) {
	decisionID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	decision, err := newDecisionService().Get(decisionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// GetPaperDecision returns a paper's decision.
func GetPaperDecision(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	decision, err := newDecisionService().GetByPaper(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// GetConferenceDecisions lists a conference's decisions, optionally filtered
// by kind via ?kind=.
func GetConferenceDecisions(c *gin.Context) {
	conferenceID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	svc := newDecisionService()
	kind := c.Query("kind")

	var err error
	var decisions interface{}
	var total int
	if kind != "" {
		list, listErr := svc.ListByKind(conferenceID, kind)
		decisions, total, err = list, len(list), listErr
	} else {
		list, listErr := svc.ListByConference(conferenceID)
		decisions, total, err = list, len(list), listErr
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"decisions": decisions,
		"total":     total,
	})
}

// SetDecisionConditions stores the requirement text on a conditional accept.
func SetDecisionConditions(c *gin.Context) {
	decisionID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		Conditions string `json:"conditions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision, err := newDecisionService().SetConditional(decisionID, req.Conditions)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// VerifyDecisionConditions marks a conditional accept's conditions as met.
func VerifyDecisionConditions(c *gin.Context) {
	decisionID, ok := paramInt(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decision, err := newDecisionService().VerifyConditions(decisionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// NotifyDecision renders the decision notice, mails the paper's authors and
// marks the decision notified.
func NotifyDecision(c *gin.Context) {
	decisionID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	svc := services.NewNotificationService(config.DB, newDecisionService(), config.SendMail)
	decision, err := svc.Dispatch(decisionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}

// BulkNotifyDecisions dispatches notifications for a batch of decisions,
// collecting per-decision failures instead of aborting the run.
func BulkNotifyDecisions(c *gin.Context) {
	var req struct {
		DecisionIDs []int `json:"decision_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewNotificationService(config.DB, newDecisionService(), config.SendMail)
	result, err := svc.BulkDispatch(req.DecisionIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// GetConferenceReviewStatus reports per-paper review completion across a
// conference.
func GetConferenceReviewStatus(c *gin.Context) {
	conferenceID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	status, err := services.NewAggregationService(config.DB, services.DefaultPolicy()).ReviewStatus(conferenceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  status,
	})
}

// GetDecisionReport returns the conference-level outcome summary.
func GetDecisionReport(c *gin.Context) {
	conferenceID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	report, err := newDecisionService().Report(conferenceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}
