package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/views"
	"github.com/yigit/campusdesk/internal/middleware"
)

// AcademicController serves the derived course, module and lecturer views
type AcademicController struct {
	sessions Sessions
	validate *validator.Validate
}

// NewAcademicController creates a new AcademicController
func NewAcademicController(sessions Sessions, validate *validator.Validate) *AcademicController {
	return &AcademicController{
		sessions: sessions,
		validate: validate,
	}
}

// ModuleCount returns how many modules belong to a course
// @Summary Count modules of a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.CountResponse}
// @Failure 503 {object} dto.ErrorResponse "Backend unavailable"
// @Router /courses/{id}/modules/count [get]
func (c *AcademicController) ModuleCount(ctx *gin.Context) {
	academic := sessionStores(ctx, c.sessions).Academic
	if err := hydrate(ctx.Request.Context(), academic.Modules); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courseID := ctx.Param("id")
	count := views.ModuleCountForCourse(academic.Modules.Items(), courseID)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CountResponse{
		ID:    courseID,
		Count: count,
	}, ""))
}

// ModuleCourses returns the names of the courses a module belongs to
// @Summary Course names of a module
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} dto.StructuredResponse{data=[]string}
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id}/courses [get]
func (c *AcademicController) ModuleCourses(ctx *gin.Context) {
	academic := sessionStores(ctx, c.sessions).Academic
	reqCtx := ctx.Request.Context()
	if err := hydrate(reqCtx, academic.Courses); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	module, ok := academic.Modules.Find(ctx.Param("id"))
	if !ok {
		res := academic.Modules.FetchOne(reqCtx, ctx.Param("id"))
		if !res.Success {
			middleware.HandleAPIError(ctx, res.Err)
			return
		}
		module = *res.Data
	}

	names := views.CourseNamesForModule(module, views.NewIndex(academic.Courses.Items()))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(names, ""))
}

// PrerequisiteOptions returns the modules that may be chosen as prerequisites
// @Summary Prerequisite options for a module
// @Description Every cached module except the one being edited
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID being edited"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Module}
// @Router /modules/{id}/prerequisite-options [get]
func (c *AcademicController) PrerequisiteOptions(ctx *gin.Context) {
	academic := sessionStores(ctx, c.sessions).Academic
	if err := hydrate(ctx.Request.Context(), academic.Modules); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	options := views.PrerequisiteOptions(academic.Modules.Items(), ctx.Param("id"))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(options, ""))
}

// AddOfficeHour appends an office-hour slot to a lecturer
// @Summary Add an office hour
// @Description At most one slot per weekday
// @Tags lecturers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lecturer ID"
// @Param request body models.OfficeHour true "Slot"
// @Success 200 {object} dto.StructuredResponse{data=models.Lecturer}
// @Failure 400 {object} dto.ErrorResponse "Invalid slot"
// @Failure 409 {object} dto.ErrorResponse "Weekday already taken"
// @Router /lecturers/{id}/office-hours [post]
func (c *AcademicController) AddOfficeHour(ctx *gin.Context) {
	var slot models.OfficeHour
	if !middleware.BindJSON(ctx, &slot, c.validate) {
		return
	}
	respond(ctx, http.StatusOK, sessionStores(ctx, c.sessions).Academic.AddOfficeHour(ctx.Request.Context(), ctx.Param("id"), slot))
}

// Students lists the students enrolled in an intake course
// @Summary Students of an intake course
// @Tags intake-courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Intake course ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Student}
// @Router /intake-courses/{id}/students [get]
func (c *AcademicController) Students(ctx *gin.Context) {
	academic := sessionStores(ctx, c.sessions).Academic
	if err := hydrate(ctx.Request.Context(), academic.Students); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	students := views.StudentsByIntakeCourse(academic.Students.Items(), ctx.Param("id"))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(students, ""))
}

// Lecturers lists the lecturers of a department
// @Summary Lecturers of a department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Lecturer}
// @Router /departments/{id}/lecturers [get]
func (c *AcademicController) Lecturers(ctx *gin.Context) {
	academic := sessionStores(ctx, c.sessions).Academic
	if err := hydrate(ctx.Request.Context(), academic.Lecturers); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lecturers := views.LecturersByDepartment(academic.Lecturers.Items(), ctx.Param("id"))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(lecturers, ""))
}

// LecturerCount returns how many lecturers teach a module
// @Summary Count lecturers of a module
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.CountResponse}
// @Router /modules/{id}/lecturers/count [get]
func (c *AcademicController) LecturerCount(ctx *gin.Context) {
	academic := sessionStores(ctx, c.sessions).Academic
	if err := hydrate(ctx.Request.Context(), academic.Lecturers); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	moduleID := ctx.Param("id")
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CountResponse{
		ID:    moduleID,
		Count: views.LecturerCountForModule(academic.Lecturers.Items(), moduleID),
	}, ""))
}
