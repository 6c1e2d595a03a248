package controllers

import (
	"net/http"
	"strconv"

	"conference-review-api/config"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

func newBidService() *services.BidService {
	return services.NewBidService(config.DB, services.NewConflictService(config.DB))
}

// SubmitBid records or replaces a member's bid on a paper.
func SubmitBid(c *gin.Context) {
	var req struct {
		PCMemberID int  `json:"pc_member_id" binding:"required"`
		PaperID    int  `json:"paper_id" binding:"required"`
		BidValue   *int `json:"bid_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	bid, err := newBidService().Submit(req.PCMemberID, req.PaperID, *req.BidValue)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"bid":     bid,
	})
}

// UpdateBid changes an existing bid's value.
func UpdateBid(c *gin.Context) {
	bidID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		BidValue *int `json:"bid_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	bid, err := newBidService().Update(bidID, *req.BidValue)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bid":     bid,
	})
}

// RemoveBid deletes a bid.
func RemoveBid(c *gin.Context) {
	bidID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	if err := newBidService().Remove(bidID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bid removed",
	})
}

// GetMemberBids lists a member's bids.
func GetMemberBids(c *gin.Context) {
	memberID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	bids, err := newBidService().ListByMember(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}

// GetPaperBids lists the bids on a paper.
func GetPaperBids(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	bids, err := newBidService().ListByPaper(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}

// GetPaperBidScore returns the aggregated bid score for a paper.
func GetPaperBidScore(c *gin.Context) {
	paperID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	score, err := newBidService().PaperScore(paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   score,
	})
}

// GetPapersByBidScore ranks a conference's papers by average bid score.
func GetPapersByBidScore(c *gin.Context) {
	conferenceID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	minScore := queryFloat(c, "min_score", -2)
	maxScore := queryFloat(c, "max_score", 2)

	results, err := newBidService().PapersByBidScore(conferenceID, minScore, maxScore)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"papers":  results,
		"total":   len(results),
	})
}

// GetBiddingSummary reports conference-wide bidding participation.
func GetBiddingSummary(c *gin.Context) {
	conferenceID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	summary, err := newBidService().Summary(conferenceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
