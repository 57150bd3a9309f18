package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appidentity "github.com/taxprep/backend/internal/application/identity"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
	"github.com/taxprep/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles admin sign-in
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           login
// @Summary      Sign in to the admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginInput true "Credentials"
// @Success      200 {object} dto.Response{data=appidentity.TokenResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var in appidentity.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	in.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Login successful", result)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RefreshInput true "Refresh token"
// @Success      200 {object} dto.Response{data=appidentity.TokenResult}
// @Failure      401 {object} dto.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var in appidentity.RefreshInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @ID           logout
// @Summary      Revoke the current session
// @Description  Revokes the access token used for the call and the refresh token if one is sent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LogoutInput false "Refresh token"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var in appidentity.LogoutInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			h.BindError(c, err)
			return
		}
	}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		in.AccessTokenID = claims.ID
		in.AccessTokenTTL = claims.GetRemainingTTL()
	}
	if err := h.authService.Logout(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @ID           me
// @Summary      Get the signed-in account
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=appidentity.UserInfo}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
