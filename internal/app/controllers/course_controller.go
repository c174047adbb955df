package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/app/services"
	"github.com/oguzk/classhub/internal/middleware"
	"github.com/oguzk/classhub/internal/pkg/logger"
)

// CourseController handles course catalog and enrollment endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// parseIDParam parses a numeric path parameter, responding 400 on garbage.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListCourses lists courses with optional filters
// @Summary List courses
// @Description Lists courses, newest first, optionally filtered by status, instructor and a name/code substring search
// @Tags courses
// @Produce json
// @Param status query string false "Course status" Enums(active, archived, draft)
// @Param instructor query int false "Instructor user ID"
// @Param search query string false "Case-insensitive substring match on name or code"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var filter dto.CourseFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// GetMyCourses lists the caller's courses
// @Summary List own courses
// @Description Lists courses the caller teaches or is enrolled in
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses/me [get]
func (c *CourseController) GetMyCourses(ctx *gin.Context) {
	caller := middleware.GetCaller(ctx)

	courses, err := c.courseService.ListCoursesForUser(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// GetCourse returns one course aggregate
// @Summary Get a course
// @Description Returns the full course with modules, enrollments and user references
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// CreateCourse creates a course owned by the caller
// @Summary Create a course
// @Description Creates an active course owned by the caller; instructors and admins only
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or duplicate course code"
// @Failure 403 {object} dto.ErrorResponse "Caller may not create courses"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid course creation payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// UpdateCourse applies a field merge to a course
// @Summary Update a course
// @Description Merges the provided fields into the course; owner or admin only. Submitting modules replaces the whole sequence
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to merge"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// DeleteCourse removes a course and everything embedded in it
// @Summary Delete a course
// @Description Deletes the course with its modules, items and enrollments; owner or admin only
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	caller := middleware.GetCaller(ctx)

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Course deleted"}))
}

// Enroll enrolls the caller in a course
// @Summary Enroll in a course
// @Description Adds the caller to the course as a student; enrolling twice is rejected
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	caller := middleware.GetCaller(ctx)

	if err := c.courseService.Enroll(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Enrolled"}))
}

// AddModule appends a module to a course
// @Summary Add a module
// @Description Appends a module to the course server-side; owner or admin only
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.AddModuleRequest true "Module data"
// @Success 201 {object} dto.APIResponse{data=models.Module}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/modules [post]
func (c *CourseController) AddModule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	module, err := c.courseService.AddModule(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(module))
}

// AddItem appends an item to a module
// @Summary Add an item to a module
// @Description Appends an item of any type to the addressed module; course instructor only
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param request body dto.AddItemRequest true "Item data"
// @Success 201 {object} dto.APIResponse{data=models.Item}
// @Failure 403 {object} dto.ErrorResponse "Not the instructor"
// @Failure 404 {object} dto.ErrorResponse "Course or module not found"
// @Router /courses/{id}/modules/{moduleId}/items [post]
func (c *CourseController) AddItem(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	moduleID := ctx.Param("moduleId")

	var req dto.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	item, err := c.courseService.AddItem(ctx.Request.Context(), caller, id, moduleID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(item))
}
