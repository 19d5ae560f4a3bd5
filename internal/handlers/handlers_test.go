package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pojistovna/config"
	"pojistovna/internal/app"
	"pojistovna/internal/database"
	"pojistovna/internal/handlers/middleware"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app  *fiber.App
	core *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Config{
		DatabaseIdentityPath:  ":memory:",
		DatabaseInsurancePath: ":memory:",
		DatabaseContactPath:   ":memory:",
	}

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	core, err := app.NewWithDatabase(cfg, db)
	require.NoError(t, err)

	fiberApp := fiber.New()
	require.NoError(t, Router(fiberApp, core))

	return &fixture{app: fiberApp, core: core}
}

// sessionFor registers an account and returns its session token. The admin
// flag grants role membership the same way startup does for the configured
// administrator.
func (f *fixture) sessionFor(t *testing.T, email string, admin bool) string {
	t.Helper()
	ctx := context.Background()

	user, session, err := f.core.AccountController.Register(ctx, &RegisterRequest{
		Email:           email,
		Password:        "pass1234",
		ConfirmPassword: "pass1234",
	})
	require.NoError(t, err)

	if admin {
		require.NoError(t, f.core.UserRepo.AddToRole(ctx, user, RoleAdmin))
	}

	return session.Token
}

func (f *fixture) request(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func (f *fixture) createHolder(t *testing.T) *PolicyHolder {
	t.Helper()
	holder, err := f.core.PolicyHolderController.Create(context.Background(), &PolicyHolderRequest{
		FullName:        "Jana Novak",
		Address:         "Hlavni 12, Praha",
		Email:           "jana@test.cz",
		TelephoneNumber: "+420123456789",
	})
	require.NoError(t, err)
	return holder
}

func (f *fixture) createInsurance(t *testing.T, holderID int) *Insurance {
	t.Helper()
	insurance, err := f.core.InsuranceController.Create(context.Background(), &InsuranceRequest{
		PolicyHolderID: holderID,
		InsuranceType:  "Auto",
		Amount:         500,
		StartDate:      "2024-01-01",
		EndDate:        "2025-01-01",
	})
	require.NoError(t, err)
	return insurance
}

func TestHome(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, fiber.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "success", body["message"])
}

func TestPublicReads_NoSessionRequired(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)

	resp := f.request(t, fiber.MethodGet, "/PolicyHolder/Index", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = f.request(t, fiber.MethodGet, "/PolicyHolder/Details/1", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		PolicyHolder PolicyHolder `json:"policyHolder"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, holder.FullName, body.PolicyHolder.FullName)
}

func TestAdminGate_AnonymousIsChallenged(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)
	insurance := f.createInsurance(t, holder.ID)

	resp := f.request(t, fiber.MethodPost, "/Insurance/Delete/1", "", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	assert.Contains(t, location, "/Account/Login")
	assert.Contains(t, location, "returnUrl=")

	// The gate fires before the handler; the row is untouched.
	_, err := f.core.InsuranceController.Get(context.Background(), insurance.ID)
	require.NoError(t, err)
}

func TestAdminGate_NonAdminSessionIsChallenged(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)
	insurance := f.createInsurance(t, holder.ID)
	token := f.sessionFor(t, "referent@test.cz", false)

	resp := f.request(t, fiber.MethodPost, "/Insurance/Delete/1", token, nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/Account/Login")

	_, err := f.core.InsuranceController.Get(context.Background(), insurance.ID)
	require.NoError(t, err)
}

func TestAdminGate_AdminPasses(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)
	insurance := f.createInsurance(t, holder.ID)
	token := f.sessionFor(t, "admin@test.cz", true)

	resp := f.request(t, fiber.MethodPost, "/Insurance/Delete/1", token, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/Insurance/Index", resp.Header.Get("Location"))

	_, err := f.core.InsuranceController.Get(context.Background(), insurance.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_AdminFlow(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, "admin@test.cz", true)

	resp := f.request(t, fiber.MethodPost, "/PolicyHolder/Create", token, PolicyHolderRequest{
		FullName:        "Petr Svoboda",
		Address:         "Dlouha 3, Brno",
		Email:           "petr@test.cz",
		TelephoneNumber: "+420987654321",
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/PolicyHolder/Index", resp.Header.Get("Location"))

	resp = f.request(t, fiber.MethodGet, "/PolicyHolder/Index", "", nil)
	var body struct {
		PolicyHolders []PolicyHolder `json:"policyHolders"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.PolicyHolders, 1)
	assert.Equal(t, "Petr Svoboda", body.PolicyHolders[0].FullName)
}

func TestCreate_ValidationFailureIsUnprocessable(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, "admin@test.cz", true)

	resp := f.request(t, fiber.MethodPost, "/PolicyHolder/Create", token, PolicyHolderRequest{
		FullName: "Petr Svoboda",
		Email:    "not-an-email",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "validation failed", body.Message)
	assert.NotEmpty(t, body.Errors)
}

func TestEdit_StaleVersionIsConflict(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)
	token := f.sessionFor(t, "admin@test.cz", true)

	request := PolicyHolderRequest{
		ID:              holder.ID,
		Version:         holder.Version,
		FullName:        "Jana Novakova",
		Address:         holder.Address,
		Email:           holder.Email,
		TelephoneNumber: holder.TelephoneNumber,
	}

	resp := f.request(t, fiber.MethodPost, "/PolicyHolder/Edit/1", token, request)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	// Replaying the original version is a lost-update attempt.
	resp = f.request(t, fiber.MethodPost, "/PolicyHolder/Edit/1", token, request)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDetails_BadIDsAreNotFound(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{
		"/Insurance/Details/abc",
		"/Insurance/Details/0",
		"/Insurance/Details/-1",
		"/Insurance/Details/999",
	} {
		resp := f.request(t, fiber.MethodGet, target, "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "target %s", target)
	}
}

func TestGetInsurancesByPolicyHolder(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)
	insurance := f.createInsurance(t, holder.ID)

	other, err := f.core.PolicyHolderController.Create(context.Background(), &PolicyHolderRequest{
		FullName:        "Petr Svoboda",
		Address:         "Dlouha 3, Brno",
		Email:           "petr@test.cz",
		TelephoneNumber: "+420987654321",
	})
	require.NoError(t, err)
	f.createInsurance(t, other.ID)

	resp := f.request(t, fiber.MethodGet, "/InsuranceEvent/GetInsurancesByPolicyHolder?policyHolderId=1", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var options []InsuranceOption
	decodeJSON(t, resp, &options)
	require.Len(t, options, 1)
	assert.Equal(t, insurance.ID, options[0].ID)
	assert.Equal(t, "Auto", options[0].InsuranceType)
}

// A missing or malformed holder id binds to zero and yields an empty array
// rather than an error; the selector just empties out.
func TestGetInsurancesByPolicyHolder_UnmatchedHolderIsEmpty(t *testing.T) {
	f := newFixture(t)
	holder := f.createHolder(t)
	f.createInsurance(t, holder.ID)

	for _, target := range []string{
		"/InsuranceEvent/GetInsurancesByPolicyHolder",
		"/InsuranceEvent/GetInsurancesByPolicyHolder?policyHolderId=abc",
		"/InsuranceEvent/GetInsurancesByPolicyHolder?policyHolderId=0",
		"/InsuranceEvent/GetInsurancesByPolicyHolder?policyHolderId=999",
	} {
		resp := f.request(t, fiber.MethodGet, target, "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "target %s", target)

		var options []InsuranceOption
		decodeJSON(t, resp, &options)
		assert.NotNil(t, options, "target %s", target)
		assert.Empty(t, options, "target %s", target)
	}
}

func TestContactForm_SubmissionIsPublicInboxIsNot(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, fiber.MethodPost, "/ContactForm/Create", "", ContactFormRequest{
		FullName: "Jana Novak",
		Email:    "jana@test.cz",
		Message:  "Chci zmenit pojistnou smlouvu.",
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The submitter cannot read the inbox back.
	resp = f.request(t, fiber.MethodGet, "/ContactForm/Index", "", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	token := f.sessionFor(t, "admin@test.cz", true)
	resp = f.request(t, fiber.MethodGet, "/ContactForm/Index", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ContactForms []ContactForm `json:"contactForms"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.ContactForms, 1)
	assert.Equal(t, "Jana Novak", body.ContactForms[0].FullName)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := newFixture(t)
	f.sessionFor(t, "user@test.cz", false)

	resp := f.request(t, fiber.MethodPost, "/Account/Login", "", LoginRequest{
		Email:    "user@test.cz",
		Password: "pass1234",
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.sessionFor(t, "user@test.cz", false)

	resp := f.request(t, fiber.MethodPost, "/Account/Login", "", LoginRequest{
		Email:    "user@test.cz",
		Password: "wrongpass",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestLogin_ReturnURLMustBeLocal(t *testing.T) {
	f := newFixture(t)
	f.sessionFor(t, "user@test.cz", false)

	tests := []struct {
		name      string
		returnURL string
		location  string
	}{
		{"local path honored", "/Insurance/Index", "/Insurance/Index"},
		{"absolute url rejected", "https://evil.example/phish", "/"},
		{"scheme relative rejected", "//evil.example", "/"},
		{"backslash escape rejected", "/\\evil.example", "/"},
		{"empty falls back home", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.request(t, fiber.MethodPost, "/Account/Login", "", LoginRequest{
				Email:     "user@test.cz",
				Password:  "pass1234",
				ReturnURL: tt.returnURL,
			})
			assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestRegister_DuplicateEmailIsUnprocessable(t *testing.T) {
	f := newFixture(t)
	f.sessionFor(t, "user@test.cz", false)

	resp := f.request(t, fiber.MethodPost, "/Account/Register", "", RegisterRequest{
		Email:           "user@test.cz",
		Password:        "pass1234",
		ConfirmPassword: "pass1234",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors []FieldError `json:"errors"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, "admin@test.cz", true)

	resp := f.request(t, fiber.MethodGet, "/Account/Logout", token, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	// The old token no longer clears the gate.
	resp = f.request(t, fiber.MethodGet, "/ContactForm/Index", token, nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

// The fixture app skips the anti-forgery layer so route tests stay focused;
// this test stacks it the way the server does and checks both outcomes.
func TestMutations_RequireAntiForgeryToken(t *testing.T) {
	f := newFixture(t)

	server := fiber.New()
	server.Use(middleware.CSRF())
	require.NoError(t, Router(server, f.core))

	payload, err := json.Marshal(ContactFormRequest{
		FullName: "Jana Novak",
		Email:    "jana@test.cz",
		Message:  "Chci zmenit pojistnou smlouvu.",
	})
	require.NoError(t, err)

	// Without a token the request never reaches the handler.
	req := httptest.NewRequest(fiber.MethodPost, "/ContactForm/Create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	forms, err := f.core.ContactFormController.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forms, "rejected request must not persist anything")

	// Any safe request issues the token cookie.
	resp, err = server.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	var token *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.CSRFCookie {
			token = cookie
		}
	}
	require.NotNil(t, token)
	require.NotEmpty(t, token.Value)

	// Echoing it back in the header clears the gate.
	req = httptest.NewRequest(fiber.MethodPost, "/ContactForm/Create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Csrf-Token", token.Value)
	req.AddCookie(token)
	resp, err = server.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	forms, err = f.core.ContactFormController.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, forms, 1)
}

func TestIsLocalURL(t *testing.T) {
	tests := []struct {
		url   string
		local bool
	}{
		{"/", true},
		{"/Insurance/Index", true},
		{"/Account/Login?returnUrl=%2F", true},
		{"", false},
		{"Insurance/Index", false},
		{"https://evil.example", false},
		{"//evil.example", false},
		{"/\\evil.example", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.local, isLocalURL(tt.url), "url %q", tt.url)
	}
}
