package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/middleware"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/roles"
	"github.com/stemsi/exstem-client/internal/service"
	"github.com/stemsi/exstem-client/internal/validator"
)

// AuthHandler handles sign-in endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sessionResponse struct {
	User       model.User `json:"user"`
	RedirectTo string     `json:"redirect_to"`
}

func newSessionResponse(creds *authstore.Credentials) sessionResponse {
	return sessionResponse{User: creds.User, RedirectTo: roles.DashboardFor(creds.User.Role)}
}

// Login godoc
// POST /api/v1/auth/login
// Signs in against the exam server and keeps the issued token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	creds, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		var apiErr *apiclient.APIError
		switch {
		case errors.Is(err, service.ErrNoToken):
			response.Fail(c, http.StatusBadGateway, response.ErrNoToken)
		case errors.As(err, &apiErr) && apiErr.Status < 500:
			response.FailWithDetail(c, http.StatusUnauthorized, response.ErrInvalidCredentials, apiErr.Message)
		default:
			failUpstream(c, err, response.ErrUpstream)
		}
		return
	}

	response.Success(c, http.StatusOK, newSessionResponse(creds))
}

// Register godoc
// POST /api/v1/auth/register
// Creates an account on the exam server and signs in with it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	creds, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		var apiErr *apiclient.APIError
		switch {
		case errors.Is(err, service.ErrNoToken):
			response.Fail(c, http.StatusBadGateway, response.ErrNoToken)
		case errors.As(err, &apiErr) && apiErr.Status < 500:
			response.FailWithDetail(c, http.StatusBadRequest, response.ErrInvalidPayload, apiErr.Message)
		default:
			failUpstream(c, err, response.ErrUpstream)
		}
		return
	}

	response.Success(c, http.StatusCreated, newSessionResponse(creds))
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"redirect_to": roles.PathLogin})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the signed-in account and its dashboard.
func (h *AuthHandler) Me(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	if creds == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotSignedIn)
		return
	}
	response.Success(c, http.StatusOK, newSessionResponse(creds))
}
