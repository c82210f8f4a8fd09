package router

import (
	"workspace-api/core/middleware"
	"workspace-api/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

// MeetingRouter registers meeting and recurrence routes.
type MeetingRouter struct {
	MeetingController    *controller.MeetingController
	RecurrenceController *controller.RecurrenceController
}

func NewMeetingRouter(meetingController *controller.MeetingController, recurrenceController *controller.RecurrenceController) *MeetingRouter {
	return &MeetingRouter{
		MeetingController:    meetingController,
		RecurrenceController: recurrenceController,
	}
}

func (r *MeetingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	meetingRoutes := privateRoutes.Group("/meetings", mw.AuthMiddleware())

	// CRUD
	meetingRoutes.POST("", r.MeetingController.CreateMeeting)
	meetingRoutes.GET("", r.MeetingController.GetMyMeetings)
	meetingRoutes.GET("/:id", r.MeetingController.GetMeeting)
	meetingRoutes.PUT("/:id", r.MeetingController.UpdateMeeting)
	meetingRoutes.DELETE("/:id", r.MeetingController.DeleteMeeting)

	// Recurrence
	meetingRoutes.PUT("/:id/recurrence", r.RecurrenceController.UpsertRecurrence)
	meetingRoutes.DELETE("/:id/recurrence", r.RecurrenceController.DeleteRecurrence)

	// Export
	meetingRoutes.GET("/:id/export.ics", r.MeetingController.ExportSeries)
}
