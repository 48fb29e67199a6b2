package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/auth"
	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/model"
)

var okHandler = func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func identityFor(role model.Role) model.Identity {
	return model.Identity{AccountID: 1, FirstName: "Test", LastName: "User", Email: "t@example.com", Role: role}
}

// run sends a GET through ResolveIdentity plus the given gate and returns
// the recorder.
func run(t *testing.T, codec *auth.Codec, gate echo.MiddlewareFunc, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/inv/pending", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := ResolveIdentity(codec)(gate(okHandler))
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRequireRoleMatrix(t *testing.T) {
	codec := auth.NewCodec("gate-secret", time.Hour)
	notices := flash.NewStore("flash-secret")

	cases := []struct {
		name     string
		gate     []model.Role
		role     model.Role // empty = unauthenticated
		admitted bool
	}{
		{"admin gate admits admin", []model.Role{model.RoleAdmin}, model.RoleAdmin, true},
		{"admin gate rejects employee", []model.Role{model.RoleAdmin}, model.RoleEmployee, false},
		{"admin gate rejects customer", []model.Role{model.RoleAdmin}, model.RoleCustomer, false},
		{"admin gate rejects anonymous", []model.Role{model.RoleAdmin}, "", false},
		{"staff gate admits admin", []model.Role{model.RoleAdmin, model.RoleEmployee}, model.RoleAdmin, true},
		{"staff gate admits employee", []model.Role{model.RoleAdmin, model.RoleEmployee}, model.RoleEmployee, true},
		{"staff gate rejects customer", []model.Role{model.RoleAdmin, model.RoleEmployee}, model.RoleCustomer, false},
		{"staff gate rejects anonymous", []model.Role{model.RoleAdmin, model.RoleEmployee}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cookie string
			if tc.role != "" {
				tok, err := codec.Issue(identityFor(tc.role))
				if err != nil {
					t.Fatalf("issue: %v", err)
				}
				cookie = tok
			}
			rec := run(t, codec, RequireRole(notices, tc.gate...), cookie)
			if tc.admitted {
				if rec.Code != http.StatusOK {
					t.Fatalf("want 200, got %d", rec.Code)
				}
				return
			}
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("want 303, got %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/account/login" {
				t.Fatalf("want redirect to /account/login, got %q", loc)
			}
		})
	}
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	codec := auth.NewCodec("login-secret", time.Hour)
	notices := flash.NewStore("flash-secret")

	rec := run(t, codec, RequireLogin(notices), "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/account/login" {
		t.Fatalf("anonymous caller not redirected: code=%d loc=%q", rec.Code, rec.Header().Get("Location"))
	}

	tok, err := codec.Issue(identityFor(model.RoleCustomer))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec = run(t, codec, RequireLogin(notices), tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("logged-in caller blocked: %d", rec.Code)
	}
}

func TestResolveIdentityClearsBadToken(t *testing.T) {
	codec := auth.NewCodec("resolve-secret", time.Hour)
	forged, err := auth.NewCodec("other-secret", time.Hour).Issue(identityFor(model.RoleAdmin))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: forged})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := ResolveIdentity(codec)(func(c echo.Context) error {
		if LoggedIn(c) {
			t.Fatal("forged token must not authenticate")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	cleared := false
	for _, sc := range rec.Header().Values("Set-Cookie") {
		if strings.HasPrefix(sc, auth.CookieName+"=") && strings.Contains(sc, "Max-Age=0") {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("bad session cookie was not cleared: %v", rec.Header().Values("Set-Cookie"))
	}
}

func TestResolveIdentityAttachesSnapshot(t *testing.T) {
	codec := auth.NewCodec("attach-secret", time.Hour)
	want := identityFor(model.RoleEmployee)
	tok, err := codec.Issue(want)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := ResolveIdentity(codec)(func(c echo.Context) error {
		got, ok := IdentityFrom(c)
		if !ok || got != want {
			t.Fatalf("identity not attached: ok=%v got=%+v", ok, got)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
}
