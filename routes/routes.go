package routes

import (
	"conference-management-api/controllers"
	"conference-management-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Conferences & registrations
			conferences := protected.Group("/conferences")
			{
				conferences.GET("", controllers.GetConferences)
				conferences.GET("/:id", controllers.GetConference)
				conferences.POST("/:id/register", controllers.RegisterForConference)

				// Certificates (organizer-triggered generation)
				conferences.POST("/:id/certificates/generate",
					middleware.RequireRole(3), controllers.GenerateCertificates)
				conferences.GET("/:id/certificates/eligibility",
					middleware.RequireRole(3), controllers.GetCertificateEligibility)
				conferences.GET("/:id/bids",
					middleware.RequireRole(3), controllers.GetConferenceBids)
			}

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)

				// Authors create and revise their own papers
				submissions.POST("", middleware.RequireRole(1), controllers.CreateSubmission) // 1 = author
				submissions.PUT("/:id", middleware.RequireRole(1), controllers.UpdateSubmission)
				submissions.POST("/:id/coauthors", middleware.RequireRole(1), controllers.AddCoauthor)
				submissions.GET("/:id/coauthors", controllers.GetCoauthors)

				// Organizer lifecycle operations
				submissions.POST("/:id/approve", middleware.RequireRole(3), controllers.ApproveSubmission) // 3 = organizer
				submissions.POST("/:id/decision", middleware.RequireRole(3), controllers.DecideSubmission)
				submissions.POST("/:id/attendance", middleware.RequireRole(3), controllers.MarkAuthorAttendance)
				submissions.GET("/:id/bids", middleware.RequireRole(3), controllers.GetSubmissionBids)

				// Reviews
				submissions.POST("/:id/reviews", middleware.RequireRole(2), controllers.SubmitReview) // 2 = reviewer
				submissions.GET("/:id/reviews/mine", middleware.RequireRole(2), controllers.GetMyReview)
				submissions.GET("/:id/reviews/can-update", middleware.RequireRole(2), controllers.GetReviewUpdateEligibility)
				submissions.GET("/:id/reviews", middleware.RequireRole(3), controllers.GetSubmissionReviews)
			}

			// Bids
			bids := protected.Group("/bids")
			{
				bids.POST("", middleware.RequireRole(2), controllers.PlaceBid)
				bids.GET("/mine", middleware.RequireRole(2), controllers.GetMyBids)
				bids.POST("/:id/withdraw", middleware.RequireRole(2), controllers.WithdrawBid)
				bids.POST("/:id/decision", middleware.RequireRole(3), controllers.DecideBid)
			}

			// Assignments (organizer-managed)
			assignments := protected.Group("/assignments")
			assignments.Use(middleware.RequireRole(3))
			{
				assignments.POST("", controllers.CreateAssignment)
				assignments.GET("", controllers.GetAssignments)
				assignments.PUT("/:id/lock", controllers.SetAssignmentLock)
				assignments.DELETE("/:id", controllers.DeleteAssignment)
			}

			// Reviews (cross-submission views)
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/mine", middleware.RequireRole(2), controllers.GetMyReviews)
				reviews.GET("/track/:id", middleware.RequireRole(3), controllers.GetTrackReviews)
			}

			// Registrations
			protected.POST("/registrations/:id/attendance",
				middleware.RequireRole(3), controllers.MarkParticipantAttendance)

			// Certificates (recipient-facing)
			certificates := protected.Group("/certificates")
			{
				certificates.GET("/mine", controllers.GetMyCertificates)
				certificates.GET("/:id/download", controllers.DownloadCertificate)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetMyNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}
		}
	}
}
