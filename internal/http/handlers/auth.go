package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /register
func (ah *AuthHandler) Register(c *gin.Context) {
	var in views.RegistrationInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := ah.authService.Register(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out)
}

// POST /login
func (ah *AuthHandler) Login(c *gin.Context) {
	var in views.LoginInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	tokens, err := ah.authService.Login(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, tokens)
}

// POST /refresh
// body: { "refresh_token": "..." }
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var in views.RefreshInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	tokens, err := ah.authService.Refresh(dbcOf(c), in.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, tokens)
}

// POST /logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(dbcOf(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /me
func (ah *AuthHandler) DeleteMe(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := ah.authService.DeleteUser(dbcOf(c), rd.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}
