package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conference-review-api/config"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// DeclareConflict records a conflict of interest declaration.
func DeclareConflict(c *gin.Context) {
	var req struct {
		PCMemberID   int        `json:"pc_member_id" binding:"required"`
		PaperID      *int       `json:"paper_id"`
		AuthorUserID *int       `json:"author_user_id"`
		ConflictType string     `json:"conflict_type" binding:"required"`
		Description  *string    `json:"description"`
		DeclaredBy   string     `json:"declared_by"`
		StartDate    *time.Time `json:"conflict_start_date"`
		EndDate      *time.Time `json:"conflict_end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewConflictService(config.DB)
	conflict, err := svc.Declare(services.DeclareConflictInput{
		PCMemberID:   req.PCMemberID,
		PaperID:      req.PaperID,
		AuthorUserID: req.AuthorUserID,
		ConflictType: req.ConflictType,
		Description:  req.Description,
		DeclaredBy:   req.DeclaredBy,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"conflict": conflict,
	})
}

// GetMemberConflicts lists a PC member's active conflicts.
func GetMemberConflicts(c *gin.Context) {
	memberID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	conflicts, err := services.NewConflictService(config.DB).ListByMember(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"conflicts": conflicts,
		"total":     len(conflicts),
	})
}

// GetPaperConflicts lists the active conflicts targeting a paper.
func GetPaperConflicts(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	conflicts, err := services.NewConflictService(config.DB).ListByPaper(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"conflicts": conflicts,
		"total":     len(conflicts),
	})
}

// CheckConflict answers whether a (member, paper) pair is blocked, with the
// matched conflict's type and reason.
func CheckConflict(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Query("pc_member_id"))
	if err != nil || memberID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pc_member_id"})
		return
	}
	paperID, err := strconv.Atoi(c.Query("paper_id"))
	if err != nil || paperID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper_id"})
		return
	}

	detail, err := services.NewConflictService(config.DB).Detail(memberID, paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  detail,
	})
}

// VerifyConflict stamps verification metadata on a declaration.
func VerifyConflict(c *gin.Context) {
	conflictID, ok := paramInt(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conflict, err := services.NewConflictService(config.DB).Verify(conflictID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"conflict": conflict,
	})
}

// DeactivateConflict soft-deletes a declaration, keeping it for audit.
func DeactivateConflict(c *gin.Context) {
	conflictID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	if err := services.NewConflictService(config.DB).Deactivate(conflictID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Conflict deactivated",
	})
}
