package handlers

import (
	"net/http"
	"time"

	"github.com/waste3d/coursehub/internal/middleware"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterDeps struct {
	Log            *logger.Logger
	AllowedOrigins []string
	ServiceName    string
	Auth           *middleware.AuthMiddleware
	Limiter        *middleware.RateLimiter

	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Webhooks    *WebhookHandler
	// Media routes are mounted only when object storage is configured.
	Media *MediaHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.ServiceName != "" {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	r.Use(middleware.RequestLogger(d.Log))

	config := cors.DefaultConfig()
	config.AllowOrigins = d.AllowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/webhooks/identity", d.Webhooks.Identity)

	api := r.Group("/api/v1")
	{
		api.GET("/courses", d.Courses.List)
		api.GET("/courses/:id", d.Courses.GetOne)
		api.GET("/courses/:id/lessons", d.Courses.ListLessons)
		if d.Media != nil {
			api.GET("/files/*key", d.Media.File)
		}

		student := api.Group("")
		student.Use(d.Auth.RequireAuth())
		{
			student.GET("/enrollments", d.Enrollments.List)
			student.POST("/enrollments", d.Limiter.Limit("enroll", 20, time.Minute), d.Enrollments.Create)
			student.GET("/enrollments/:id", d.Enrollments.Get)
			student.DELETE("/enrollments/:id", d.Enrollments.Cancel)
			student.GET("/progress", d.Enrollments.Progress)
			student.POST("/progress", d.Limiter.Limit("progress", 120, time.Minute), d.Enrollments.SetProgress)
		}

		admin := api.Group("")
		admin.Use(d.Auth.RequireAuth(), d.Auth.RequireAdmin())
		{
			admin.POST("/courses", d.Courses.Create)
			admin.PUT("/courses/:id", d.Courses.Update)
			admin.DELETE("/courses/:id", d.Courses.Delete)
			admin.POST("/courses/:id/lessons", d.Courses.CreateLesson)
			admin.PUT("/courses/:id/lessons", d.Courses.UpdateLessons)
			admin.DELETE("/courses/:id/lessons", d.Courses.DeleteLesson)
			admin.GET("/admin/enrollments", d.Enrollments.Overview)
			if d.Media != nil {
				admin.POST("/upload", d.Limiter.Limit("upload", 30, time.Minute), d.Media.Upload)
			}
		}
	}

	return r
}
