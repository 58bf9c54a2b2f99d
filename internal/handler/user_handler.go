package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
)

// UserHandler handles account and session requests
type UserHandler struct {
	authService service.AuthService
	cookies     CookieOptions
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService service.AuthService, cookies CookieOptions) *UserHandler {
	return &UserHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account from JSON or multipart form fields with optional avatar and coverImage files
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.ApiResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid registration request")
		return
	}

	avatar, closeAvatar, err := formFile(c, "avatar")
	if err != nil {
		badRequest(c, "Invalid avatar file")
		return
	}
	defer closeAvatar()

	coverImage, closeCover, err := formFile(c, "coverImage")
	if err != nil {
		badRequest(c, "Invalid cover image file")
		return
	}
	defer closeCover()

	user, err := h.authService.Register(c.Request.Context(), &req, avatar, coverImage)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with username or email and password; sets accessToken and refreshToken cookies
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.ApiResponse{data=dto.SessionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid login request")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.setSession(c, session.Tokens)
	respond(c, http.StatusOK, "User logged in successfully", sessionResponse(session))
}

// Refresh handles token rotation
// @Summary Refresh tokens
// @Description Rotate the refresh token taken from the refreshToken cookie or the request body
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} dto.ApiResponse{data=dto.SessionResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/refresh-token [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshTokenCookie)
	if err != nil || token == "" {
		var req dto.RefreshRequest
		// an empty body is reported as a missing token by the service
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	session, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.setSession(c, session.Tokens)
	respond(c, http.StatusOK, "Access token refreshed", sessionResponse(session))
}

// Logout handles user logout
// @Summary Logout user
// @Description Clear the stored refresh token and both session cookies
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ApiResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.cookies.clearSession(c)
	respond(c, http.StatusOK, "User logged out", nil)
}

// ChangePassword handles password change
// @Summary Change password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.ApiResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid change password request")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password changed successfully", nil)
}

// CurrentUser handles getting current user profile
// @Summary Get current user profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ApiResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/current-user [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, ok := CallerFrom(c)
	if !ok {
		respondError(c, apperror.Unauthorized("Unauthorized request"))
		return
	}

	respond(c, http.StatusOK, "Current user fetched successfully", user)
}

// UpdateAccount handles full name and email changes
// @Summary Update account details
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateAccountRequest true "Account details"
// @Success 200 {object} dto.ApiResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid account details")
		return
	}

	user, err := h.authService.UpdateAccountDetails(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Account details updated successfully", user)
}

// UpdateAvatar handles avatar upload
// @Summary Update avatar
// @Tags users
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.ApiResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.authService.UpdateAvatar, "Avatar image updated successfully")
}

// UpdateCoverImage handles cover image upload
// @Summary Update cover image
// @Tags users
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} dto.ApiResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.authService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID string, file *service.MediaFile) (*domain.User, error)

func (h *UserHandler) updateImage(c *gin.Context, field string, update imageUpdater, message string) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	file, closeFile, err := formFile(c, field)
	if err != nil {
		badRequest(c, "Invalid "+field+" file")
		return
	}
	defer closeFile()

	user, err := update(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, message, user)
}

// ChannelProfile handles channel page lookup
// @Summary Get channel profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} dto.ApiResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/channel/{username} [get]
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetChannelProfile(c.Request.Context(), c.Param("username"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User channel fetched successfully", profile)
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		User:         session.User,
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
	}
}
