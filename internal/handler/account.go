package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/auth"
	"github.com/ravelor/dealer-inventory/internal/config"
	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/middleware"
	"github.com/ravelor/dealer-inventory/internal/repository"
)

// invalidCredentials is shown for unknown emails and wrong passwords alike
// so login responses do not leak which accounts exist.
const invalidCredentials = "Please check your credentials and try again."

// AccountHandler bundles dependencies for registration, login and profile
// endpoints.
type AccountHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Codec    *auth.Codec
	Notices  *flash.Store
}

func NewAccountHandler(cfg config.Config, accounts *repository.AccountRepo, codec *auth.Codec, notices *flash.Store) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Accounts: accounts, Codec: codec, Notices: notices}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"account_firstname" form:"account_firstname"`
	LastName  string `json:"account_lastname" form:"account_lastname"`
	Email     string `json:"account_email" form:"account_email"`
	Password  string `json:"account_password" form:"account_password"`
}

type loginReq struct {
	Email    string `json:"account_email" form:"account_email"`
	Password string `json:"account_password" form:"account_password"`
}

type updateReq struct {
	FirstName string `json:"account_firstname" form:"account_firstname"`
	LastName  string `json:"account_lastname" form:"account_lastname"`
	Email     string `json:"account_email" form:"account_email"`
}

type passwordReq struct {
	Password string `json:"account_password" form:"account_password"`
}

// LoginForm delivers the login page data along with any queued notices.
func (h *AccountHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"title": "Login", "notices": h.Notices.Pop(c)})
}

// RegisterForm delivers the registration page data.
func (h *AccountHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"title": "Register", "notices": h.Notices.Pop(c)})
}

// Register validates the submitted fields, hashes the password and creates
// the account with the default customer role. Success redirects to the
// login page with a welcome notice.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var fieldErrors []string
	if req.FirstName == "" {
		fieldErrors = append(fieldErrors, "Please provide a first name.")
	}
	if len(req.LastName) < 2 {
		fieldErrors = append(fieldErrors, "Please provide a last name.")
	}
	if !validEmail(req.Email) {
		fieldErrors = append(fieldErrors, "A valid email is required.")
	}
	if !strongPassword(req.Password) {
		fieldErrors = append(fieldErrors, "Password does not meet requirements.")
	}
	if len(fieldErrors) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Sorry, there was an error processing the registration."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.Create(ctx, req.FirstName, req.LastName, req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email exists. Please log in or use different email"})
		}
		h.Notices.Add(c, "Sorry, the registration failed.")
		return c.Redirect(http.StatusSeeOther, "/account/register")
	}

	h.Notices.Add(c, "Congratulations, you're registered "+acct.FirstName+". Please log in.")
	return c.Redirect(http.StatusSeeOther, "/account/login")
}

// Login verifies credentials, issues the session cookie and redirects to
// the account management page. Unknown email and wrong password produce
// the identical notice.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalidCredentials})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": invalidCredentials})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(acct.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalidCredentials})
	}

	token, err := h.Codec.Issue(acct.Identity())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	auth.SetSessionCookie(c, token, h.Codec.TTL(), !h.Cfg.Dev())
	return c.Redirect(http.StatusSeeOther, "/account/")
}

// Management delivers the account management page data for the logged-in
// caller.
func (h *AccountHandler) Management(c echo.Context) error {
	ident, _ := middleware.IdentityFrom(c)
	return c.JSON(http.StatusOK, echo.Map{
		"title":   "Account Management",
		"account": ident,
		"notices": h.Notices.Pop(c),
	})
}

// Update changes the caller's names and email, then re-issues the session
// token from the updated row so the cookie reflects the new snapshot.
func (h *AccountHandler) Update(c echo.Context) error {
	ident, _ := middleware.IdentityFrom(c)

	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FirstName == "" || len(req.LastName) < 2 || !validEmail(req.Email) {
		h.Notices.Add(c, "Please correct the account fields and try again.")
		return c.Redirect(http.StatusSeeOther, "/account/")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.Update(ctx, ident.AccountID, req.FirstName, req.LastName, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.Notices.Add(c, "Email exists. Please log in or use different email")
		} else {
			h.Notices.Add(c, "Sorry, the account update failed.")
		}
		return c.Redirect(http.StatusSeeOther, "/account/")
	}

	token, err := h.Codec.Issue(acct.Identity())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	auth.SetSessionCookie(c, token, h.Codec.TTL(), !h.Cfg.Dev())
	h.Notices.Add(c, "Congratulations, your information has been updated.")
	return c.Redirect(http.StatusSeeOther, "/account/")
}

// UpdatePassword replaces the caller's password after the strength check.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	ident, _ := middleware.IdentityFrom(c)

	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !strongPassword(req.Password) {
		h.Notices.Add(c, "Password does not meet requirements.")
		return c.Redirect(http.StatusSeeOther, "/account/")
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.UpdatePassword(ctx, ident.AccountID, hash); err != nil {
		h.Notices.Add(c, "Sorry, the password update failed.")
		return c.Redirect(http.StatusSeeOther, "/account/")
	}
	h.Notices.Add(c, "Congratulations, your password has been updated.")
	return c.Redirect(http.StatusSeeOther, "/account/")
}

// Logout clears the session cookie and sends the caller back to the login
// page.
func (h *AccountHandler) Logout(c echo.Context) error {
	auth.ClearSessionCookie(c)
	h.Notices.Add(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/account/login")
}
