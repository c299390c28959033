package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/syllabus/internal/app/controllers"
	"github.com/yigit/syllabus/internal/middleware"
	"github.com/yigit/syllabus/internal/pkg/metrics"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	evaluationController *controllers.EvaluationController,
	feedbackController *controllers.FeedbackController,
	exportController *controllers.ExportController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Routes that work with or without a session ---
	optional := v1.Group("")
	optional.Use(authMiddleware.OptionalOwner())
	{
		optional.GET("/auth/status", authController.Status)
		optional.POST("/feedback", feedbackController.SendMessage)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireOwner())
	{
		authenticated.GET("/auth/logoff", authController.Logoff)

		authenticated.POST("/evaluate", evaluationController.Evaluate)
		authenticated.POST("/question", evaluationController.Question)

		course := authenticated.Group("/course")
		{
			course.GET("", courseController.Current)
			course.GET("/search", courseController.Search)
			course.POST("/modify", courseController.Modify)
			course.POST("/description", courseController.SetDescription)
			course.POST("/upload", courseController.Upload)
			course.GET("/save", courseController.StartNewVersion)

			course.GET("/versions", courseController.ListVersions)
			course.GET("/versions/:index", courseController.GetVersion)
			course.GET("/versions/id/:id", courseController.GetVersionByID)

			course.POST("/outcomes", courseController.AddOutcome)
			course.DELETE("/outcomes", courseController.RemoveOutcome)
			course.DELETE("/outcomes/:position", courseController.RemoveOutcomeAt)

			course.POST("/assessments", courseController.AddAssessment)
			course.DELETE("/assessments", courseController.RemoveAssessment)
			course.DELETE("/assessments/:position", courseController.RemoveAssessmentAt)
		}

		ratings := authenticated.Group("/ratings")
		{
			ratings.POST("/outcomes", feedbackController.RateOutcome)
			ratings.POST("/assessments", feedbackController.RateAssessment)
		}

		authenticated.GET("/download/:filetype", exportController.Download)
		authenticated.GET("/download/:filetype/:index", exportController.Download)
	}
}
