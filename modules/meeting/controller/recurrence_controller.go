package controller

import (
	"workspace-api/core/controller"
	"workspace-api/core/errors"
	"workspace-api/modules/meeting/dto"
	"workspace-api/modules/meeting/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RecurrenceController handles recurrence configuration requests.
type RecurrenceController struct {
	controller.BaseController
	RecurrenceService service.RecurrenceServiceInterface
}

func NewRecurrenceController(svc service.RecurrenceServiceInterface) *RecurrenceController {
	return &RecurrenceController{
		BaseController:    controller.NewBaseController(),
		RecurrenceService: svc,
	}
}

// UpsertRecurrence handles PUT /meetings/:id/recurrence
// @Summary Set or edit a recurrence rule
// @Description Apply a recurrence rule to a meeting; scope "series" rewrites the whole series, "following" splits it from the target
// @Tags Recurrence
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.UpsertRecurrenceRequest true "Recurrence rule and edit scope"
// @Success 200 {object} dto.RecurrenceResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/recurrence [put]
func (c *RecurrenceController) UpsertRecurrence(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.UpsertRecurrenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RecurrenceService.UpsertRecurrence(ctx.Request().Context(), userID, meetingID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Recurrence updated successfully")
}

// DeleteRecurrence handles DELETE /meetings/:id/recurrence
// @Summary Remove a recurrence rule
// @Description Remove the recurrence rule and collapse the series back to its head meeting
// @Tags Recurrence
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/recurrence [delete]
func (c *RecurrenceController) DeleteRecurrence(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.RecurrenceService.DeleteRecurrence(ctx.Request().Context(), userID, meetingID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Recurrence removed successfully")
}
