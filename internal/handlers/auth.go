package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"undergraduation-admin/config"
	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/middleware"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"
	"undergraduation-admin/internal/session"
	"undergraduation-admin/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProfile is the part of the Google user info used to sign staff in.
type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// GoogleExchanger turns an authorization code into the signed-in profile.
type GoogleExchanger func(ctx context.Context, code string) (*GoogleProfile, error)

type AuthHandler struct {
	staff    repository.StaffStore
	sessions *session.Manager
	google   GoogleExchanger
}

func NewAuthHandler(cfg *config.Config, staff repository.StaffStore, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		staff:    staff,
		sessions: sessions,
		google:   googleCodeExchanger(cfg),
	}
}

func googleCodeExchanger(cfg *config.Config) GoogleExchanger {
	redirect := ""
	if len(cfg.FrontendURLs) > 0 {
		redirect = cfg.FrontendURLs[0]
	}
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  redirect, // must match the frontend's redirect
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"openid",
		},
		Endpoint: google.Endpoint,
	}

	return func(ctx context.Context, code string) (*GoogleProfile, error) {
		token, err := conf.Exchange(ctx, code)
		if err != nil {
			return nil, err
		}
		svc, err := googleOAuth2.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
		if err != nil {
			return nil, err
		}
		info, err := svc.Userinfo.Get().Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		return &GoogleProfile{ID: info.Id, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
	}
}

// Signup godoc
// @Summary Register a staff account
// @Tags auth
// @Param body body models.SignupRequest true "Account"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to process password",
		})
		return
	}

	staff := &models.Staff{
		Email:    strings.TrimSpace(req.Email),
		Password: hashedPassword,
		Name:     strings.TrimSpace(req.Name),
		Provider: "email",
	}
	if err := h.staff.CreateStaff(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "user_exists",
				Message: "User with this email already exists",
			})
			return
		}
		storeFailure(c, err, "staff account")
		return
	}

	h.respondWithSession(c, ctx, http.StatusCreated, staff)
}

// Login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	staff, err := h.staff.FindStaffByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Invalid email or password",
			})
			return
		}
		storeFailure(c, err, "staff account")
		return
	}

	if staff.Provider != "email" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Please use " + staff.Provider + " to sign in",
		})
		return
	}

	if err := utils.CheckPassword(staff.Password, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
		})
		return
	}

	h.respondWithSession(c, ctx, http.StatusOK, staff)
}

// GoogleAuth godoc
// @Summary Sign in with a Google authorization code
// @Tags auth
// @Param body body models.GoogleAuthRequest true "Authorization code"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.google(c.Request.Context(), req.Code)
	if err != nil {
		logger.Log.Warn("google sign-in failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "google_auth_failed",
			Message: "Failed to verify Google account",
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	staff, err := h.staff.FindStaffByGoogleID(ctx, profile.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		storeFailure(c, err, "staff account")
		return
	}

	if staff == nil {
		existing, err := h.staff.FindStaffByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			// Link the Google identity to the existing account.
			existing.GoogleID = profile.ID
			existing.Provider = "google"
			if existing.Picture == "" {
				existing.Picture = profile.Picture
			}
			if err := h.staff.UpdateStaff(ctx, existing); err != nil {
				storeFailure(c, err, "staff account")
				return
			}
			staff = existing
		case errors.Is(err, repository.ErrNotFound):
			staff = &models.Staff{
				Email:    profile.Email,
				Name:     profile.Name,
				Picture:  profile.Picture,
				Provider: "google",
				GoogleID: profile.ID,
			}
			if err := h.staff.CreateStaff(ctx, staff); err != nil {
				storeFailure(c, err, "staff account")
				return
			}
		default:
			storeFailure(c, err, "staff account")
			return
		}
	}

	h.respondWithSession(c, ctx, http.StatusOK, staff)
}

// RefreshToken godoc
// @Summary Rotate the access and refresh tokens
// @Tags auth
// @Param body body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sess, tokens, err := h.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logger.Log.Debug("refresh rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_refresh_token",
			Message: "Invalid or expired refresh token",
		})
		return
	}

	staff, err := h.staff.FindStaffByID(ctx, sess.StaffID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_refresh_token",
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		User:         staff,
	})
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.sessions.SignOut(ctx, sess.ID); err != nil {
		logger.Log.Error("sign out failed", zap.String("session", sess.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to logout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetMe godoc
// @Summary Current staff profile
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} models.Staff
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	staff, err := h.staff.FindStaffByID(ctx, sess.StaffID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "user_not_found",
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *AuthHandler) respondWithSession(c *gin.Context, ctx context.Context, status int, staff *models.Staff) {
	_, tokens, err := h.sessions.SignIn(ctx, staff)
	if err != nil {
		logger.Log.Error("session creation failed", zap.String("staff", staff.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to start session",
		})
		return
	}

	c.JSON(status, models.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		User:         staff,
	})
}
