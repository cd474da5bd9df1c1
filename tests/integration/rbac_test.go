package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// memberToken signs up a member through the public endpoint and logs in.
func memberToken(t *testing.T, app *testApp) string {
	t.Helper()
	rec := app.request("POST", "/api/members/signup",
		`{"name":"Plain Member","mobile":"9555000001"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	member := parseJSON(t, rec)["member"].(map[string]interface{})
	return app.login(t, member["id_card_no"].(string), "9555000001")
}

func TestRBAC_MemberCannotWrite(t *testing.T) {
	app := setupApp(t)
	superToken := app.loginSuperadmin(t)
	app.createBudget(t, superToken, "Events", "1000")
	token := memberToken(t, app)

	writes := []struct {
		method, path, body string
	}{
		{"POST", "/api/budgets", fmt.Sprintf(`{"name":"X","category":"X","allocated":"1","date":%q}`, time.Now().Format(time.RFC3339))},
		{"POST", "/api/expenses", expenseBody("Snacks", "Events", "10")},
		{"POST", "/api/donations", `{"donor_name":"D","amount":"10","date":"2026-01-01T00:00:00Z","payment_method":"cash"}`},
		{"POST", "/api/admins", `{"id_card_no":"AD9999","name":"X","mobile":"9000009999","role":"admin"}`},
		{"DELETE", "/api/sheet-items", ""},
	}
	for _, w := range writes {
		rec := app.request(w.method, w.path, w.body, token)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 for member, got %d: %s", w.method, w.path, rec.Code, rec.Body.String())
		}
	}

	// Reads stay open to any authenticated caller.
	reads := []string{
		"/api/budgets",
		"/api/expenses",
		"/api/donations",
		"/api/dashboard/stats",
		"/api/reports/summary",
		"/api/sheet-items",
	}
	for _, path := range reads {
		rec := app.request("GET", path, "", token)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200 for member, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRBAC_AdminCannotApproveOrDelete(t *testing.T) {
	app := setupApp(t)
	superToken := app.loginSuperadmin(t)
	adminToken := app.loginAdmin(t)

	app.createBudget(t, superToken, "Events", "1000")

	rec := app.request("POST", "/api/expenses", expenseBody("Catering", "Events", "300"), adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	expenseID := parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(float64)

	// Approval, rejection, and deletion are superadmin-only.
	actions := []struct {
		method, path string
	}{
		{"PUT", fmt.Sprintf("/api/expenses/%.0f/approve", expenseID)},
		{"PUT", fmt.Sprintf("/api/expenses/%.0f/reject", expenseID)},
		{"DELETE", fmt.Sprintf("/api/expenses/%.0f", expenseID)},
		{"POST", "/api/budgets"},
		{"DELETE", "/api/budgets/1"},
	}
	for _, a := range actions {
		rec := app.request(a.method, a.path, "{}", adminToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 for admin, got %d: %s", a.method, a.path, rec.Code, rec.Body.String())
		}
	}

	// The expense is still pending and the budget untouched.
	assertBudget(t, app.getBudgetByCategory(t, "Events"), "0", "1000")
}

func TestRBAC_AdminCanFileExpensesAndDonations(t *testing.T) {
	app := setupApp(t)
	superToken := app.loginSuperadmin(t)
	adminToken := app.loginAdmin(t)

	app.createBudget(t, superToken, "Events", "1000")

	rec := app.request("POST", "/api/expenses", expenseBody("Decor", "Events", "150"), adminToken)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 filing expense as admin, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/donations",
		`{"donor_name":"Anita","amount":"500","date":"2026-02-01T00:00:00Z","payment_method":"upi"}`, adminToken)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 filing donation as admin, got %d: %s", rec.Code, rec.Body.String())
	}
}
