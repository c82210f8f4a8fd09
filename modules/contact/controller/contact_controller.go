package controller

import (
	"workspace-api/core/constants"
	"workspace-api/core/controller"
	"workspace-api/core/errors"
	"workspace-api/core/utils"
	"workspace-api/modules/contact/dto"
	"workspace-api/modules/contact/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ContactController struct {
	controller.BaseController
	ContactService service.ContactServiceInterface
}

func NewContactController(svc service.ContactServiceInterface) *ContactController {
	return &ContactController{
		BaseController: controller.NewBaseController(),
		ContactService: svc,
	}
}

func getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// CreateContact handles POST /contacts
// @Summary Create a contact
// @Description Create a contact owned by the authenticated user
// @Tags Contact
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "Contact payload"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/contacts [post]
func (c *ContactController) CreateContact(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateContactRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Name == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Name is required")
	}

	result, appErr := c.ContactService.CreateContact(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Contact created successfully")
}

// GetContact handles GET /contacts/:id
// @Summary Get a contact
// @Tags Contact
// @Security BearerAuth
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 404 {object} errors.AppError
// @Router /private/contacts/{id} [get]
func (c *ContactController) GetContact(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact ID")
	}

	result, appErr := c.ContactService.GetContactByID(ctx.Request().Context(), userID, contactID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetMyContacts handles GET /contacts
// @Summary List my contacts
// @Tags Contact
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ContactResponse
// @Failure 401 {object} errors.AppError
// @Router /private/contacts [get]
func (c *ContactController) GetMyContacts(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ContactService.GetMyContacts(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateContact handles PUT /contacts/:id
// @Summary Update a contact
// @Tags Contact
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body dto.UpdateContactRequest true "Fields to update"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/contacts/{id} [put]
func (c *ContactController) UpdateContact(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact ID")
	}

	var req dto.UpdateContactRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ContactService.UpdateContact(ctx.Request().Context(), userID, contactID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Contact updated successfully")
}

// DeleteContact handles DELETE /contacts/:id
// @Summary Delete a contact
// @Tags Contact
// @Security BearerAuth
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/contacts/{id} [delete]
func (c *ContactController) DeleteContact(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact ID")
	}

	if appErr := c.ContactService.DeleteContact(ctx.Request().Context(), userID, contactID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Contact deleted successfully")
}
