package handlers

import (
	"net/http"

	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/transport/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courses *usecase.CourseUseCase
}

func NewCourseHandler(uc *usecase.CourseUseCase) *CourseHandler {
	return &CourseHandler{courses: uc}
}

// lessonReq is the body of lesson writes. A PUT carrying LessonIDs reorders
// the course; one carrying LessonID edits that lesson.
type lessonReq struct {
	usecase.LessonInput
	LessonID  string   `json:"lessonId"`
	LessonIDs []string `json:"lessonIds"`
}

// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	status := domain.CourseStatus(c.Query("status"))
	courses, err := h.courses.ListCourses(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"courses": courses})
}

// GET /api/v1/courses/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"course": course})
}

// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in usecase.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid course payload")
		return
	}
	course, err := h.courses.CreateCourse(c.Request.Context(), p, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"course": course})
}

// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	var in usecase.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid course payload")
		return
	}
	course, err := h.courses.UpdateCourse(c.Request.Context(), p, id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"course": course})
}

// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	if err := h.courses.DeleteCourse(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

// GET /api/v1/courses/:id/lessons
func (h *CourseHandler) ListLessons(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	lessons, err := h.courses.ListLessons(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"lessons": lessons})
}

// POST /api/v1/courses/:id/lessons
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	var req lessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid lesson payload")
		return
	}
	lesson, err := h.courses.CreateLesson(c.Request.Context(), p, courseID, req.LessonInput)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"lesson": lesson})
}

// PUT /api/v1/courses/:id/lessons
func (h *CourseHandler) UpdateLessons(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	var req lessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid lesson payload")
		return
	}

	if len(req.LessonIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(req.LessonIDs))
		for _, raw := range req.LessonIDs {
			id, ok := parseID(c, raw, "lessonIds")
			if !ok {
				return
			}
			ids = append(ids, id)
		}
		lessons, err := h.courses.ReorderLessons(c.Request.Context(), p, courseID, ids)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"lessons": lessons})
		return
	}

	if req.LessonID == "" {
		response.BadRequest(c, "lessonId or lessonIds is required")
		return
	}
	lessonID, ok := parseID(c, req.LessonID, "lessonId")
	if !ok {
		return
	}
	lesson, err := h.courses.UpdateLesson(c.Request.Context(), p, courseID, lessonID, req.LessonInput)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// DELETE /api/v1/courses/:id/lessons?lessonId=
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Param("id"), "course id")
	if !ok {
		return
	}
	lessonID, ok := parseID(c, c.Query("lessonId"), "lessonId")
	if !ok {
		return
	}
	if err := h.courses.DeleteLesson(c.Request.Context(), p, courseID, lessonID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
