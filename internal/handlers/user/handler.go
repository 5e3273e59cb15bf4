package user

import (
	"net/http"

	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/user/model"
	"umrahcrm/internal/domains/user/model/dto"
	"umrahcrm/internal/domains/user/service"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/validator"
	"umrahcrm/transport/http/request"
	"umrahcrm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetUsers)
		routerGroup.Get("/pending", handler.GetPendingUsers)
		routerGroup.Get("/me", handler.GetMe)
		routerGroup.Post("/me/video", handler.UploadVideo)
		routerGroup.Post("/me/contract", handler.UploadContract)
		routerGroup.Get("/{id}", handler.GetUserByID)
		routerGroup.Post("/{id}/activate", handler.ActivateUser)
		routerGroup.Post("/{id}/deactivate", handler.DeactivateUser)
	})
}

// GetUsers lists consultants and admins.
// @Summary Get all users
// @Tags User
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "Onboarding status"
// @Param role query string false "admin or consultant"
// @Success 200 {object} dto.GetUsersResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	queryParams := gDto.ParseQueryParams(r)

	filter := dto.UserFilter{
		Status: model.Status(r.URL.Query().Get("status")),
		Role:   r.URL.Query().Get("role"),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	users, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get users")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// GetPendingUsers lists consultants waiting for approval.
// @Summary Get users pending approval
// @Tags User
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/pending [get]
// @Security BearerAuth
func (handler *Handler) GetPendingUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPendingUsers")
	defer scope.End()

	users, err := handler.service.GetPending(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pending users")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// GetMe
// @Summary Get the signed in user
// @Tags User
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	user, err := handler.service.Get(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get current user")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// GetUserByID
// @Summary Get a user by ID
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserByID")
	defer scope.End()

	user, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// ActivateUser approves a consultant after the video review.
// @Summary Activate a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id}/activate [post]
// @Security BearerAuth
func (handler *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ActivateUser")
	defer scope.End()

	user, err := handler.service.Activate(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to activate user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User activated")

	response.WithJSON(w, http.StatusOK, user)
}

// DeactivateUser
// @Summary Deactivate a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id}/deactivate [post]
// @Security BearerAuth
func (handler *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateUser")
	defer scope.End()

	user, err := handler.service.Deactivate(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User deactivated")

	response.WithJSON(w, http.StatusOK, user)
}

// UploadVideo
// @Summary Upload the introduction video
// @Description Send the video as a multipart "file" or a hosted video_url.
// @Tags Onboarding
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "Introduction video"
// @Param request body dto.UploadVideoRequest false "Hosted video"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/me/video [post]
// @Security BearerAuth
func (handler *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadVideo")
	defer scope.End()

	req := dto.UploadVideoRequest{}

	if request.IsMultipart(r) {
		file, err := request.FormFile(r)
		if err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
		defer request.Close(file)

		req.File = file
		req.VideoURL = r.FormValue("video_url")
	} else if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	user, err := handler.service.UploadVideo(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload video")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// UploadContract
// @Summary Upload the signed contract
// @Tags Onboarding
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "Signed contract"
// @Param request body dto.UploadContractRequest false "Hosted contract"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/me/contract [post]
// @Security BearerAuth
func (handler *Handler) UploadContract(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadContract")
	defer scope.End()

	req := dto.UploadContractRequest{}

	if request.IsMultipart(r) {
		file, err := request.FormFile(r)
		if err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
		defer request.Close(file)

		req.File = file
		req.ContractURL = r.FormValue("contract_url")
	} else if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	user, err := handler.service.UploadContract(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload contract")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}
