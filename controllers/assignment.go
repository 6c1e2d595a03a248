package controllers

import (
	"net/http"

	"conference-review-api/config"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// CreateAssignment manually assigns a reviewer to a paper.
func CreateAssignment(c *gin.Context) {
	var req struct {
		PaperID    int    `json:"paper_id" binding:"required"`
		PCMemberID int    `json:"pc_member_id" binding:"required"`
		Method     string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assignment, err := services.NewAssignmentService(config.DB).
		Assign(req.PaperID, req.PCMemberID, userID, req.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

// RemoveAssignment unassigns a reviewer, returning the workload counter to
// its prior value.
func RemoveAssignment(c *gin.Context) {
	assignmentID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	if err := services.NewAssignmentService(config.DB).Unassign(assignmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assignment removed",
	})
}

// AutoAssignReviewers fills a paper's review slots automatically. The batch
// is all-or-nothing: on failure no assignment is committed.
func AutoAssignReviewers(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		NumReviewers int   `json:"num_reviewers"`
		PreferSenior *bool `json:"prefer_senior"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.NumReviewers == 0 {
		req.NumReviewers = 3
	}
	preferSenior := true
	if req.PreferSenior != nil {
		preferSenior = *req.PreferSenior
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assignments, err := services.NewAssignmentService(config.DB).
		AutoAssign(paperID, req.NumReviewers, preferSenior, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetPaperAssignments lists a paper's assignments.
func GetPaperAssignments(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	svc := services.NewAssignmentService(config.DB)
	assignments, err := svc.ListByPaper(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetMemberAssignments lists a member's assignments.
func GetMemberAssignments(c *gin.Context) {
	memberID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	assignments, err := services.NewAssignmentService(config.DB).ListByMember(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetMemberLoad reports a member's review workload.
func GetMemberLoad(c *gin.Context) {
	memberID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	load, err := services.NewAssignmentService(config.DB).Load(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"load":    load,
	})
}

// GetAssignmentStatistics reports the conference-wide workload picture.
func GetAssignmentStatistics(c *gin.Context) {
	conferenceID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	stats, err := services.NewAssignmentService(config.DB).Statistics(conferenceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"statistics": stats,
	})
}

// GetPaperReviewerCount returns how many reviewers a paper has.
func GetPaperReviewerCount(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	count, err := services.NewAssignmentService(config.DB).PaperReviewerCount(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"paper_id":       paperID,
		"reviewer_count": count,
	})
}
