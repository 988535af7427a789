package handlers

import (
	"net/http"

	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/transport/http/response"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	enrollments *usecase.EnrollmentUseCase
}

func NewEnrollmentHandler(uc *usecase.EnrollmentUseCase) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: uc}
}

type enrollReq struct {
	CourseID string `json:"courseId" binding:"required"`
}

type progressReq struct {
	LessonID  string `json:"lessonId" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

// GET /api/v1/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.enrollments.ListMine(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"enrollments": list})
}

// POST /api/v1/enrollments
func (h *EnrollmentHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req enrollReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "courseId is required")
		return
	}
	courseID, ok := parseID(c, req.CourseID, "courseId")
	if !ok {
		return
	}

	e, created, err := h.enrollments.Enroll(c.Request.Context(), p, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"enrollment": e})
}

// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, c.Param("id"), "enrollment id")
	if !ok {
		return
	}
	view, err := h.enrollments.GetEnrollment(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"enrollment": view})
}

// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, c.Param("id"), "enrollment id")
	if !ok {
		return
	}
	e, err := h.enrollments.Cancel(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"enrollment": e})
}

// GET /api/v1/progress?courseId=
func (h *EnrollmentHandler) Progress(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	raw := c.Query("courseId")
	if raw == "" {
		response.BadRequest(c, "courseId is required")
		return
	}
	courseID, ok := parseID(c, raw, "courseId")
	if !ok {
		return
	}
	summary, err := h.enrollments.ProgressSummary(c.Request.Context(), p, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// POST /api/v1/progress
func (h *EnrollmentHandler) SetProgress(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "lessonId and completed are required")
		return
	}
	lessonID, ok := parseID(c, req.LessonID, "lessonId")
	if !ok {
		return
	}
	res, err := h.enrollments.SetLessonProgress(c.Request.Context(), p, lessonID, *req.Completed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// GET /api/v1/admin/enrollments
func (h *EnrollmentHandler) Overview(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	overview, err := h.enrollments.ListAll(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}
