package contact

import (
	"workspace-api/core/database"
	"workspace-api/core/middleware"
	"workspace-api/modules/contact/controller"
	"workspace-api/modules/contact/repository"
	"workspace-api/modules/contact/router"
	"workspace-api/modules/contact/service"

	"github.com/labstack/echo/v4"
)

// Init wires the contact module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewContactRepository(db)
	svc := service.NewContactService(repo)
	ctrl := controller.NewContactController(svc)
	rtr := router.NewContactRouter(ctrl)

	rtr.Setup(e, mw)
}
