package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/app/services"
	"github.com/oguzk/classhub/internal/middleware"
)

// GradeController handles submission and grading endpoints
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// Index acknowledges the grades group root
// @Summary Grades index
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /grades [get]
func (c *GradeController) Index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Grades route"}))
}

// CourseGrades lists a course's grades
// @Summary List course grades
// @Description Lists grades of the course; enrolled users and the instructor only
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GradeEntry}
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /grades/{courseId} [get]
func (c *GradeController) CourseGrades(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	caller := middleware.GetCaller(ctx)

	grades, err := c.gradeService.CourseGrades(ctx.Request.Context(), caller, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}

// MyGrades lists the caller's grades in a course
// @Summary List own grades
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GradeEntry}
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /grades/{courseId}/me [get]
func (c *GradeController) MyGrades(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	caller := middleware.GetCaller(ctx)

	grades, err := c.gradeService.StudentGrades(ctx.Request.Context(), caller, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}

// Submit accepts an assignment submission
// @Summary Submit an assignment
// @Description Accepts a submission from an enrolled user and acknowledges it
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param assignmentId path string true "Assignment ID"
// @Param request body dto.SubmitAssignmentRequest true "Submission payload"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course, module or assignment not found"
// @Router /grades/{courseId}/{moduleId}/{assignmentId}/submissions [post]
func (c *GradeController) Submit(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	moduleID := ctx.Param("moduleId")
	assignmentID := ctx.Param("assignmentId")

	var req dto.SubmitAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	if err := c.gradeService.SubmitAssignment(ctx.Request.Context(), caller, courseID, moduleID, assignmentID, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Submission received"}))
}

// Grade records a grade for a student's submission
// @Summary Grade an assignment
// @Description Records a grade from the course instructor for an enrolled student and acknowledges it
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param assignmentId path string true "Assignment ID"
// @Param studentId path int true "Student user ID"
// @Param request body dto.GradeAssignmentRequest true "Grade data"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Student not enrolled"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course, module or assignment not found"
// @Router /grades/{courseId}/{moduleId}/{assignmentId}/{studentId} [post]
func (c *GradeController) Grade(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	moduleID := ctx.Param("moduleId")
	assignmentID := ctx.Param("assignmentId")
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	var req dto.GradeAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	if err := c.gradeService.GradeAssignment(ctx.Request.Context(), caller, courseID, moduleID, assignmentID, studentID, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Grade recorded"}))
}
