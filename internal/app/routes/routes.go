package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/classhub/internal/app/controllers"
	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	assignmentController *controllers.AssignmentController,
	gradeController *controllers.GradeController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Health check (outside the API version group)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Public course catalog ---
	v1.GET("/courses", courseController.ListCourses)
	v1.GET("/courses/:id", courseController.GetCourse)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetProfile)

		courses := authenticated.Group("/courses")
		{
			// Creation is role-gated here; ownership checks on existing
			// courses happen in the service layer
			courses.GET("/me", courseController.GetMyCourses)
			courses.POST("", authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin), courseController.CreateCourse)
			courses.PUT("/:id", courseController.UpdateCourse)
			courses.DELETE("/:id", courseController.DeleteCourse)
			courses.POST("/:id/enroll", courseController.Enroll)
			courses.POST("/:id/modules", courseController.AddModule)
			courses.POST("/:id/modules/:moduleId/items", courseController.AddItem)
		}

		assignments := authenticated.Group("/assignments")
		{
			assignments.GET("", assignmentController.Index)
			assignments.GET("/:courseId", assignmentController.ListByCourse)
			assignments.POST("", assignmentController.Create)
			assignments.PUT("/:courseId/:moduleId/:assignmentId", assignmentController.Update)
			assignments.DELETE("/:courseId/:moduleId/:assignmentId", assignmentController.Delete)
		}

		grades := authenticated.Group("/grades")
		{
			grades.GET("", gradeController.Index)
			grades.GET("/:courseId", gradeController.CourseGrades)
			grades.GET("/:courseId/me", gradeController.MyGrades)
			grades.POST("/:courseId/:moduleId/:assignmentId/submissions", gradeController.Submit)
			grades.POST("/:courseId/:moduleId/:assignmentId/:studentId", gradeController.Grade)
		}
	}
}
