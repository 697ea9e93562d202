package delivery

import (
	"net/http"

	"inboxcal/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	usecase usecase.AuthUsecase
}

func NewAuthHandler(u usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{usecase: u}
}

// GoogleConnect redirects the user to the Google consent screen.
func (h *AuthHandler) GoogleConnect(c *gin.Context) {
	url, state := h.usecase.AuthURL()
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback exchanges the authorization code and stores credentials.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	if err := h.usecase.HandleCallback(c.Request.Context(), code); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "google account connected"})
}
