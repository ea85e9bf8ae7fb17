package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wintercraft/storefront/internal/auth"
	"github.com/wintercraft/storefront/internal/middleware"
)

// AuthHandler exposes sign-up, sign-in, sign-out, and the OTP reset flow.
type AuthHandler struct {
	svc       *auth.Service
	cookieTTL time.Duration
	log       *slog.Logger
}

func NewAuthHandler(svc *auth.Service, cookieTTL time.Duration, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{svc: svc, cookieTTL: cookieTTL, log: log}
}

type signUpRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=5"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role" binding:"omitempty,oneof=admin user"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=5"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	acct, err := h.svc.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		respondError(c, http.StatusBadRequest, "Passwords do not match")
	case errors.Is(err, auth.ErrInvalidRole):
		respondError(c, http.StatusBadRequest, "Invalid account role")
	case errors.Is(err, auth.ErrAccountExists):
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("Account already exists with the provided email id %s", auth.NormalizeEmail(req.Email)))
	case err != nil:
		h.log.Error("sign-up failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
	default:
		respondData(c, http.StatusCreated, acct)
	}
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	acct, token, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusBadRequest, "Invalid credentials")
	case err != nil:
		h.log.Error("sign-in failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
	default:
		setTokenCookie(c, token, int(h.cookieTTL.Seconds()))
		respondData(c, http.StatusOK, gin.H{"account": acct, "role": acct.Role})
	}
}

// SignOut clears the client-held token. A request without the cookie is a
// 400, matching the original backend's strictness.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.TokenCookie); err != nil || cookie == "" {
		respondError(c, http.StatusBadRequest, "No token present")
		return
	}

	setTokenCookie(c, "", -1)
	respondMessage(c, http.StatusOK, "Signed out")
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	err := h.svc.ForgotPassword(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, auth.ErrAccountNotFound):
		respondError(c, http.StatusNotFound, "No account found with the provided email id")
	case err != nil:
		h.log.Error("forgot-password failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
	default:
		respondMessage(c, http.StatusOK, "OTP sent to the registered email id")
	}
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	err := h.svc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword, req.ConfirmPassword)
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		respondError(c, http.StatusBadRequest, "Passwords do not match")
	case errors.Is(err, auth.ErrOTPInvalid):
		respondError(c, http.StatusBadRequest, "Invalid or expired OTP")
	case err != nil:
		h.log.Error("reset-password failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
	default:
		respondMessage(c, http.StatusOK, "Password reset successful")
	}
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)
}
