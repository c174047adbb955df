package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/app/services"
	"github.com/oguzk/classhub/internal/middleware"
)

// AssignmentController handles assignment endpoints
type AssignmentController struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// Index acknowledges the assignments group root
// @Summary Assignments index
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /assignments [get]
func (c *AssignmentController) Index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Assignments route"}))
}

// ListByCourse lists a course's assignments across modules
// @Summary List course assignments
// @Description Flattens assignment items across the course's modules, each tagged with its module title
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AssignmentView}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /assignments/{courseId} [get]
func (c *AssignmentController) ListByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListAssignments(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assignments))
}

// Create appends an assignment to a module
// @Summary Create an assignment
// @Description Appends an assignment item to the module addressed in the body; course instructor only
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} dto.APIResponse{data=models.Item}
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course or module not found"
// @Router /assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	item, err := c.assignmentService.CreateAssignment(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(item))
}

// Update applies a partial update to an assignment
// @Summary Update an assignment
// @Description Updates the provided fields; empty fields keep their stored values; course instructor only
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param assignmentId path string true "Assignment ID"
// @Param request body dto.UpdateAssignmentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Item}
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course, module or assignment not found"
// @Router /assignments/{courseId}/{moduleId}/{assignmentId} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	moduleID := ctx.Param("moduleId")
	assignmentID := ctx.Param("assignmentId")

	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	caller := middleware.GetCaller(ctx)

	item, err := c.assignmentService.UpdateAssignment(ctx.Request.Context(), caller, courseID, moduleID, assignmentID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(item))
}

// Delete removes an assignment
// @Summary Delete an assignment
// @Description Removes the assignment item from its module; course instructor only
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course, module or assignment not found"
// @Router /assignments/{courseId}/{moduleId}/{assignmentId} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	moduleID := ctx.Param("moduleId")
	assignmentID := ctx.Param("assignmentId")

	caller := middleware.GetCaller(ctx)

	if err := c.assignmentService.DeleteAssignment(ctx.Request.Context(), caller, courseID, moduleID, assignmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Assignment deleted"}))
}
