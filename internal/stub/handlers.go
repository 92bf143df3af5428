package stub

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

// dataEnvelope is the canonical success envelope: {"data": ...}.
type dataEnvelope struct {
	Data any `json:"data"`
}

// Handlers implements the REST surface of the stub backend.
type Handlers struct {
	users   *UserStore
	issuer  *Issuer
	revoker *Revoker
	log     zerolog.Logger
}

func NewHandlers(users *UserStore, issuer *Issuer, revoker *Revoker, log zerolog.Logger) *Handlers {
	return &Handlers{users: users, issuer: issuer, revoker: revoker, log: log}
}

// Login authenticates an account and returns a token pair.
func (h *Handlers) Login(c echo.Context) error {
	var req domain.LoginCredentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	pair, err := h.issuer.IssuePair(user)
	if err != nil {
		return err
	}

	LoginsTotal.WithLabelValues("success").Inc()
	h.log.Info().Str("user_id", user.ID).Msg("login")
	return c.JSON(http.StatusOK, dataEnvelope{Data: domain.AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}})
}

// Register creates an account and logs it in.
func (h *Handlers) Register(c echo.Context) error {
	var req domain.RegisterCredentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(req.Email, req.Name, req.Password, domain.RoleUser)
	if err != nil {
		RegistrationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	pair, err := h.issuer.IssuePair(user)
	if err != nil {
		return err
	}

	RegistrationsTotal.WithLabelValues("success").Inc()
	h.log.Info().Str("user_id", user.ID).Msg("registered")
	return c.JSON(http.StatusCreated, dataEnvelope{Data: domain.AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}})
}

// Logout revokes the presented access token. Requires auth middleware.
func (h *Handlers) Logout(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	if err := h.revoker.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	TokensRevokedTotal.Inc()
	h.log.Info().Str("user_id", claims.Subject).Msg("logout")
	return c.NoContent(http.StatusNoContent)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (h *Handlers) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := h.issuer.Verify(req.RefreshToken)
	if err != nil {
		return err
	}
	revoked, err := h.revoker.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return domain.ErrUnauthenticated
	}

	user, err := h.users.ByID(claims.Subject)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	pair, err := h.issuer.IssuePair(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataEnvelope{Data: map[string]string{
		"accessToken": pair.AccessToken,
	}})
}

// Me returns the authenticated user's profile.
func (h *Handlers) Me(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	user, err := h.users.ByID(claims.Subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: user})
}

// UpdateMe applies a partial profile update and returns the full record.
func (h *Handlers) UpdateMe(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req domain.UserUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Update(claims.Subject, req)
	if err != nil {
		return err
	}
	h.log.Info().Str("user_id", user.ID).Msg("profile updated")
	return c.JSON(http.StatusOK, dataEnvelope{Data: user})
}

// Users returns one page of the user directory.
func (h *Handlers) Users(c echo.Context) error {
	if _, ok := claimsFrom(c); !ok {
		return domain.ErrUnauthenticated
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	result, err := h.users.List(page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: result})
}
