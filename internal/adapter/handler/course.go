package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/errors"
	courseDTO "github.com/slidecast-team/slidecast/internal/adapter/dto/course"
	"github.com/slidecast-team/slidecast/internal/adapter/presenter"
	"github.com/slidecast-team/slidecast/internal/usecase/catalog"
)

// Course handles course HTTP requests
type Course struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewCourseHandler creates a course handler
func NewCourseHandler(catalogService *catalog.Service, logger *zap.Logger) *Course {
	return &Course{
		catalog: catalogService,
		logger:  logger,
	}
}

// Create handles POST /courses
// @Summary      Create a course
// @Tags         Courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      course.CreateCourseRequest  true  "Course title"
// @Success      201  {object}  course.CourseResponse  "Course created"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Router       /courses [post]
func (h *Course) Create(c echo.Context) error {
	var req courseDTO.CreateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	created, err := h.catalog.CreateCourse(c.Request().Context(), req.Title)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToCourseResponse(created))
}

// List handles GET /courses
// @Summary      List courses
// @Description  Gets all courses with their packs in course order.
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  course.CourseResponse  "Courses"
// @Router       /courses [get]
func (h *Course) List(c echo.Context) error {
	courses, err := h.catalog.ListCourses(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	responses := make([]*courseDTO.CourseResponse, len(courses))
	for i, course := range courses {
		responses[i] = presenter.ToCourseResponse(course)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, responses)
}

// Get handles GET /courses/:id
// @Summary      Get a course
// @Description  Gets a course with its packs sorted by order index.
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course ID (UUID)"
// @Success      200  {object}  course.CourseResponse  "Course details"
// @Failure      404  {object}  map[string]interface{}  "Course not found"
// @Router       /courses/{id} [get]
func (h *Course) Get(c echo.Context) error {
	courseID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	course, err := h.catalog.GetCourse(c.Request().Context(), courseID)
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToCourseResponse(course))
}

// Rename handles PATCH /courses/:id
// @Summary      Rename a course
// @Tags         Courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Course ID (UUID)"
// @Param        request  body      course.RenameCourseRequest  true  "New title"
// @Success      200  {object}  map[string]interface{}  "Renamed"
// @Failure      404  {object}  map[string]interface{}  "Course not found"
// @Router       /courses/{id} [patch]
func (h *Course) Rename(c echo.Context) error {
	courseID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req courseDTO.RenameCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.catalog.RenameCourse(c.Request().Context(), courseID, req.Title); err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// Delete handles DELETE /courses/:id
// @Summary      Delete a course
// @Description  Deletes a course. Its packs are detached, not deleted.
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "Deleted"
// @Failure      404  {object}  map[string]interface{}  "Course not found"
// @Router       /courses/{id} [delete]
func (h *Course) Delete(c echo.Context) error {
	courseID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.catalog.DeleteCourse(c.Request().Context(), courseID); err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// Reorder handles POST /courses/:id/reorder
// @Summary      Reorder a course's packs
// @Description  Replaces the course's pack order with the given id list. The list must contain exactly the course's current pack ids.
// @Tags         Courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Course ID (UUID)"
// @Param        request  body      course.ReorderRequest  true  "Ordered pack ids"
// @Success      200  {object}  map[string]interface{}  "Reordered"
// @Failure      400  {object}  map[string]interface{}  "Id set does not match course packs"
// @Router       /courses/{id}/reorder [post]
func (h *Course) Reorder(c echo.Context) error {
	courseID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req courseDTO.ReorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	packIDs := make([]uuid.UUID, 0, len(req.PackIDs))
	for _, raw := range req.PackIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("pack_ids must be valid UUIDs"))
		}
		packIDs = append(packIDs, id)
	}

	if err := h.catalog.Reorder(c.Request().Context(), courseID, packIDs); err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}
