package handler

import (
	"context"
	"errors"
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/court-booking/internal/config"     // app configuration
	"github.com/iliyamo/court-booking/internal/logging"    // request scoped logger
	"github.com/iliyamo/court-booking/internal/middleware" // identity of the caller
	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/repository" // DB repositories
	"github.com/iliyamo/court-booking/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Profiles *repository.ProfileRepo
	Tokens   *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, p *repository.ProfileRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Profiles: p, Tokens: t}
}

// ----- DTOs -----

type signupReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName *string  `json:"full_name"`
	Roles    []string `json:"roles"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// minPasswordLen is the shortest accepted password.
const minPasswordLen = 8

// Signup creates a profile and returns tokens immediately. The configured
// bootstrap email is granted the admin role on signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < minPasswordLen {
		return fieldError(c, "password", "must be at least 8 characters")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Profiles.Create(ctx, req.Email, req.Password, req.FullName, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if boot := strings.ToLower(strings.TrimSpace(h.Cfg.AdminBootstrapEmail)); boot != "" && boot == p.Email {
		if err := h.Profiles.GrantRole(ctx, p.ID, model.RoleAdmin); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "grant admin failed"})
		}
		logging.FromContext(ctx).WithField("user_id", p.ID).Info("bootstrap admin granted")
	}

	resp, err := h.issue(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(p.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	resp, err := h.issue(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates by hash, revokes the old token and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := requestContext(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	p, err := h.Profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	resp, err := h.issue(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// issue creates and stores a token pair for p.
func (h *AuthHandler) issue(ctx context.Context, p *model.Profile) (*authResp, error) {
	roles, err := h.Profiles.Roles(ctx, p.ID)
	if err != nil {
		return nil, errors.New("load roles failed")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, p.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return nil, errors.New("issue access failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, errors.New("issue refresh failed")
	}
	if err := h.Tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, errors.New("save refresh failed")
	}
	return &authResp{
		User:    userPart{ID: p.ID, Email: p.Email, FullName: p.FullName, Roles: roles},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Logout revokes one session when a refresh_token is posted, or every
// session of the bearer when only an Authorization header is present.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid := ""
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))); err == nil {
			uid = claims.Subject
		}
	}

	// invalid JSON just leaves the token empty
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := requestContext(c)
	defer cancel()

	switch {
	case refreshToken != "":
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	case uid != "":
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the caller's profile and current roles.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	roles, err := h.Profiles.Roles(ctx, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	isAdmin := false
	for _, r := range roles {
		if r == model.RoleAdmin {
			isAdmin = true
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":     userPart{ID: p.ID, Email: p.Email, FullName: p.FullName, Roles: roles},
		"is_admin": isAdmin,
	})
}
