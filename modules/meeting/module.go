package meeting

import (
	"workspace-api/core/cache"
	"workspace-api/core/config"
	"workspace-api/core/database"
	"workspace-api/core/middleware"
	"workspace-api/modules/meeting/controller"
	"workspace-api/modules/meeting/repository"
	"workspace-api/modules/meeting/router"
	"workspace-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init wires the meeting module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, viewCache *cache.Cache, mw *middleware.Middleware) {
	meetingRepo := repository.NewMeetingRepository(db)
	ruleRepo := repository.NewRecurrenceRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)
	tagRepo := repository.NewTagRepository(db)

	generator := service.NewOccurrenceGenerator(config.Get().Scheduler.MaxGenerationCycles)

	meetingSvc := service.NewMeetingService(db, meetingRepo, ruleRepo, attendeeRepo, tagRepo, viewCache)
	recurrenceSvc := service.NewRecurrenceService(db, meetingRepo, ruleRepo, attendeeRepo, tagRepo, generator, viewCache)

	meetingCtrl := controller.NewMeetingController(meetingSvc)
	recurrenceCtrl := controller.NewRecurrenceController(recurrenceSvc)
	rtr := router.NewMeetingRouter(meetingCtrl, recurrenceCtrl)

	rtr.Setup(e, mw)
}
