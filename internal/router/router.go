package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/coachboard/api/handler"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Calendar *apiHandler.CalendarHandler
	Coach    *apiHandler.CoachHandler
	Health   *apiHandler.HealthHandler
}

// New registers the API routes. accessLog wraps every route when non-nil.
func New(handlers Handlers, accessLog func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	if accessLog == nil {
		accessLog = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}
	r := router.New()

	r.GET("/health", accessLog(handlers.Health.Check))

	// Tasks
	r.GET("/api/v1/tasks", accessLog(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", accessLog(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", accessLog(handlers.Task.GetTask))
	r.PATCH("/api/v1/tasks/{id}", accessLog(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", accessLog(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/complete", accessLog(handlers.Task.CompleteTask))
	r.POST("/api/v1/tasks/{id}/archive", accessLog(handlers.Task.ArchiveTask))

	// Dashboard views
	r.GET("/api/v1/stats", accessLog(handlers.Task.GetStats))
	r.GET("/api/v1/events", accessLog(handlers.Task.GetEvents))

	// Calendar
	r.POST("/api/v1/calendar/connect", accessLog(handlers.Calendar.Connect))
	r.POST("/api/v1/calendar/refresh", accessLog(handlers.Calendar.Refresh))

	// Coach
	r.GET("/api/v1/chat", accessLog(handlers.Coach.GetTranscript))
	r.POST("/api/v1/chat", accessLog(handlers.Coach.Send))

	return r
}
