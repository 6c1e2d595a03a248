package routes

import (
	"conference-review-api/controllers"
	"conference-review-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference Review API is running",
				})
			})

			// Authentication
			public.POST("/login", controllers.Login)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Current user
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile/password", controllers.ChangePassword)

			// Conflicts of interest
			conflicts := protected.Group("/conflicts")
			{
				conflicts.POST("", controllers.DeclareConflict)
				conflicts.GET("/check", controllers.CheckConflict)
				conflicts.GET("/member/:id", controllers.GetMemberConflicts)
				conflicts.GET("/paper/:id", controllers.GetPaperConflicts)

				// Chair-only: verification and removal
				conflicts.POST("/:id/verify", middleware.RequireChair(), controllers.VerifyConflict)
				conflicts.DELETE("/:id", middleware.RequireChair(), controllers.DeactivateConflict)
			}

			// Bidding
			bids := protected.Group("/bids")
			{
				bids.POST("", controllers.SubmitBid)
				bids.PUT("/:id", controllers.UpdateBid)
				bids.DELETE("/:id", controllers.RemoveBid)
				bids.GET("/member/:id", controllers.GetMemberBids)
			}

			// Assignments (chair-only mutations)
			assignments := protected.Group("/assignments")
			{
				assignments.POST("", middleware.RequireChair(), controllers.CreateAssignment)
				assignments.DELETE("/:id", middleware.RequireChair(), controllers.RemoveAssignment)
			}

			// Paper-scoped views and actions
			papers := protected.Group("/papers")
			{
				papers.GET("/:id/bids", controllers.GetPaperBids)
				papers.GET("/:id/bid-score", controllers.GetPaperBidScore)
				papers.GET("/:id/assignments", controllers.GetPaperAssignments)
				papers.GET("/:id/reviewer-count", controllers.GetPaperReviewerCount)
				papers.GET("/:id/aggregate", controllers.AggregateReviews)
				papers.GET("/:id/decision", controllers.GetPaperDecision)

				papers.POST("/:id/auto-assign", middleware.RequireChair(), controllers.AutoAssignReviewers)
				papers.POST("/:id/auto-decide", middleware.RequireChair(), controllers.AutoDecide)
				papers.POST("/:id/desk-reject", middleware.RequireChair(), controllers.DeskRejectPaper)
			}

			// PC member views
			members := protected.Group("/members")
			{
				members.GET("/:id/assignments", controllers.GetMemberAssignments)
				members.GET("/:id/load", controllers.GetMemberLoad)
			}

			// Decisions (chair-only)
			decisions := protected.Group("/decisions")
			decisions.Use(middleware.RequireChair())
			{
				decisions.POST("", controllers.CreateDecision)
				decisions.POST("/bulk-auto-decide", controllers.BulkAutoDecide)
				decisions.POST("/bulk-notify", controllers.BulkNotifyDecisions)
				decisions.GET("/:id", controllers.GetDecision)
				decisions.PUT("/:id/conditions", controllers.SetDecisionConditions)
				decisions.POST("/:id/verify-conditions", controllers.VerifyDecisionConditions)
				decisions.POST("/:id/notify", controllers.NotifyDecision)
			}

			// Conference-level reporting
			conferences := protected.Group("/conferences")
			{
				conferences.GET("/:id/bidding-summary", controllers.GetBiddingSummary)
				conferences.GET("/:id/papers/by-bid-score", controllers.GetPapersByBidScore)
				conferences.GET("/:id/assignment-stats", controllers.GetAssignmentStatistics)
				conferences.GET("/:id/review-status", controllers.GetConferenceReviewStatus)
				conferences.GET("/:id/decisions", middleware.RequireChair(), controllers.GetConferenceDecisions)
				conferences.GET("/:id/decision-report", middleware.RequireChair(), controllers.GetDecisionReport)
			}
		}

	}

	// Catch-all for unknown paths
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
