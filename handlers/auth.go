package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"night_shift_app_go/config"
	"night_shift_app_go/db"
	"night_shift_app_go/middleware"
	"night_shift_app_go/services"

	"github.com/labstack/echo/v4"
)

// SignInRequest is the body of POST /api/auth/signin
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInHandler starts a sign-in. In development the session is created
// immediately; in production a magic link is emailed unless the account has
// a password and one was provided.
func SignInHandler(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid email",
		})
	}

	cfg := c.Get("config").(*config.Config)

	// In development, allow simple sign-in without verification
	if cfg.Environment != "production" {
		user, err := services.FindOrCreateUserByEmail(db.DB, email)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Sign in failed")
		}
		return establishSession(c, user.ID)
	}

	// Credentials sign-in for accounts that have a password set
	if req.Password != "" {
		user, err := services.FindOrCreateUserByEmail(db.DB, email)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Sign in failed")
		}
		if !user.HasPassword() || !services.VerifyPassword(user.Password, req.Password) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "Invalid email or password",
			})
		}
		return establishSession(c, user.ID)
	}

	// Magic link via email
	loginToken, user, err := services.GenerateLoginToken(db.DB, email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Sign in failed")
	}

	magicLink := fmt.Sprintf("%s/api/auth/verify?token=%s", cfg.AppURL, loginToken.Token)
	if err := services.SendMagicLinkEmail(cfg, user.Email, magicLink); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send sign-in email")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Magic link sent",
	})
}

// VerifyHandler consumes a magic-link token and establishes a session
func VerifyHandler(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.Redirect(http.StatusSeeOther, "/login?error=invalid-token")
	}

	user, err := services.ConsumeLoginToken(db.DB, token)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/login?error=invalid-token")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	middleware.SetSessionCookie(c, session.Token)
	touchLastLogin(user.ID)

	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// LogoutHandler deletes the current session
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		services.DeleteSession(db.DB, cookie.Value)
	}

	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// GetCurrentUserHandler returns the current user info as JSON
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

// establishSession creates a session and sets the cookie for a signed-in user
func establishSession(c echo.Context, userID string) error {
	session, err := services.CreateSession(db.DB, userID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	middleware.SetSessionCookie(c, session.Token)
	touchLastLogin(userID)

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func touchLastLogin(userID string) {
	now := time.Now()
	db.DB.Table("users").Where("id = ?", userID).Update("last_login_at", &now)
}
