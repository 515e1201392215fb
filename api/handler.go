// Package api exposes the authority over HTTP for the dashboard
// collaborators. Validation failures are serialized field by field so forms
// can display every error at once.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ratehub/authcore/authority"
	"github.com/ratehub/authcore/identity"
	"github.com/ratehub/authcore/rbac"
	"github.com/ratehub/authcore/validate"
)

type Handler struct {
	auth   *authority.Authority
	tokens *TokenIssuer
}

func NewHandler(auth *authority.Authority, tokens *TokenIssuer) *Handler {
	return &Handler{auth: auth, tokens: tokens}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/signup", h.HandleSignup)
	g.POST("/login", h.HandleLogin)

	// Protected routes
	protected := g.Group("")
	protected.Use(h.AuthMiddleware)
	protected.POST("/logout", h.HandleLogout)
	protected.GET("/whoami", h.HandleWhoAmI)
	protected.PUT("/password", h.HandleUpdatePassword)
}

func (h *Handler) HandleSignup(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Address  string `json:"address"`
		Password string `json:"password"`
	}

	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}

	s, err := h.auth.Signup(c.Request().Context(), body.Name, body.Email, body.Address, body.Password)
	if err != nil {
		var fields validate.Errors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status": "Validation failed",
				"errors": fields,
			})
		}
		if errors.Is(err, authority.ErrEmailTaken) {
			return h.Error(c, http.StatusConflict, "Email already exists", err)
		}
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return h.sessionResponse(c, s)
}

func (h *Handler) HandleLogin(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}

	s, err := h.auth.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		var locked *authority.LockedError
		if errors.As(err, &locked) {
			return h.Error(c, http.StatusLocked, "Account locked", err)
		}
		if errors.Is(err, authority.ErrAuthentication) {
			return h.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		}
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return h.sessionResponse(c, s)
}

func (h *Handler) HandleLogout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "logged out"})
}

func (h *Handler) HandleUpdatePassword(c echo.Context) error {
	var body struct {
		Password string `json:"password"`
	}

	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}

	// Rotate the credential of the identity the token authenticates, not
	// whichever identity holds the process-wide session: with several HTTP
	// clients on one server those can differ.
	ident := rbac.IdentityFrom(c)
	if err := h.auth.UpdatePasswordFor(c.Request().Context(), ident.ID, body.Password); err != nil {
		var field validate.FieldError
		if errors.As(err, &field) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status": "Validation failed",
				"errors": validate.Errors{field},
			})
		}
		if errors.Is(err, authority.ErrNotAuthenticated) {
			return h.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		}
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"status": "password updated"})
}

// AuthMiddleware accepts the bearer token minted at login/signup and stores
// the identity it carries on the request context.
func (h *Handler) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			return h.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
		}

		ident, err := h.tokens.Parse(token)
		if err != nil {
			return h.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		}

		rbac.SetIdentity(c, ident)
		return next(c)
	}
}

func (h *Handler) HandleWhoAmI(c echo.Context) error {
	ident := rbac.IdentityFrom(c)
	view, err := rbac.Route(ident.Role)
	if err != nil {
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "authenticated",
		"identity": ident,
		"view":     view,
	})
}

func (h *Handler) sessionResponse(c echo.Context, s *identity.Session) error {
	view, err := rbac.Route(s.Identity.Role)
	if err != nil {
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}

	token, err := h.tokens.Issue(&s.Identity)
	if err != nil {
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session": s,
		"view":    view,
		"token":   token,
	})
}

// Helper for structured error responses.
func (h *Handler) Error(c echo.Context, code int, message string, err error) error {
	resp := map[string]interface{}{
		"status": message,
		"code":   code,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(code, resp)
}
