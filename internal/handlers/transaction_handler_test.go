package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fintrackapp/fintrack-be/internal/core/audit"
	"github.com/fintrackapp/fintrack-be/internal/core/auth"
	"github.com/fintrackapp/fintrack-be/internal/core/charts"
	"github.com/fintrackapp/fintrack-be/internal/core/export"
	"github.com/fintrackapp/fintrack-be/internal/models"
	"github.com/fintrackapp/fintrack-be/internal/repositories"
	"github.com/fintrackapp/fintrack-be/internal/services"
)

type apiFixture struct {
	app     *fiber.App
	service *services.TransactionService
	db      *gorm.DB
	token   string

	user        models.User
	typeIncome  models.TransactionType
	typeExpense models.TransactionType
	catFood     models.Category
	catHousing  models.Category
	paymentCard models.PaymentMethod
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.TransactionType{},
		&models.Category{},
		&models.PaymentMethod{},
		&models.TransactionStatus{},
		&models.Transaction{},
		&audit.Entry{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &apiFixture{db: db}
	f.user = models.User{FirstName: "Ana", LastName: "Souza", Email: "ana@example.com", PasswordHash: "x"}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	f.typeIncome = models.TransactionType{ID: uuid.New(), Name: models.TypeIncome}
	f.typeExpense = models.TransactionType{ID: uuid.New(), Name: models.TypeExpense}
	f.catFood = models.Category{ID: uuid.New(), Name: "Food"}
	f.catHousing = models.Category{ID: uuid.New(), Name: "Housing"}
	f.paymentCard = models.PaymentMethod{ID: uuid.New(), UserID: f.user.ID, Name: "Credit card"}
	approved := models.TransactionStatus{ID: uuid.New(), Name: models.StatusApproved}
	for _, seed := range []interface{}{
		&f.typeIncome, &f.typeExpense, &f.catFood, &f.catHousing,
		&f.paymentCard, &approved,
	} {
		if err := db.Create(seed).Error; err != nil {
			t.Fatalf("seed lookup: %v", err)
		}
	}

	auditService := audit.NewService(db)
	lookupRepo := repositories.NewLookupRepo(db)
	f.service = services.NewTransactionService(
		repositories.NewTransactionRepo(db),
		lookupRepo,
		auditService,
		time.Minute,
	)

	jwtService := auth.NewJWTService("handler-test-secret", time.Hour)
	f.token, _, err = jwtService.GenerateToken(&auth.TokenClaims{
		UserID: f.user.ID.String(),
		Email:  f.user.Email,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	transactionHandler := NewTransactionHandler(f.service)
	reportHandler := NewReportHandler(f.service, export.NewService(), charts.NewGenerator(), auditService)

	f.app = fiber.New()
	api := f.app.Group("/api/v1")
	authed := api.Use(auth.Middleware(jwtService))
	authed.Get("/transactions", transactionHandler.ListTransactions)
	authed.Get("/transactions/options", transactionHandler.GetFormOptions)
	authed.Get("/transactions/export", reportHandler.ExportTransactions)
	authed.Post("/transactions", transactionHandler.CreateTransaction)
	authed.Put("/transactions/:id", transactionHandler.UpdateTransaction)
	authed.Delete("/transactions/:id", transactionHandler.DeleteTransaction)

	return f
}

func (f *apiFixture) create(t *testing.T, name, date string, amount int64, typeID, categoryID uuid.UUID) *models.TransactionView {
	t.Helper()
	view, err := f.service.CreateTransaction(f.user.ID, &models.CreateTransactionRequest{
		Name:            name,
		Amount:          amount,
		Date:            date,
		TypeID:          typeID.String(),
		CategoryID:      categoryID.String(),
		PaymentMethodID: f.paymentCard.ID.String(),
	})
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return view
}

func (f *apiFixture) request(t *testing.T, method, target string, body interface{}, authed bool) *http.Response {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		req = httptest.NewRequest(method, target, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodePage(t *testing.T, resp *http.Response) *models.PaginatedTransactions {
	t.Helper()
	var page models.PaginatedTransactions
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return &page
}

func TestRoutesRequireBearerToken(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	targets := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/transactions"},
		{http.MethodGet, "/api/v1/transactions/options"},
		{http.MethodGet, "/api/v1/transactions/export"},
		{http.MethodPost, "/api/v1/transactions"},
		{http.MethodPut, "/api/v1/transactions/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/transactions/" + uuid.NewString()},
	}
	for _, tc := range targets {
		resp := f.request(t, tc.method, tc.target, nil, false)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token = %d, want 401", tc.method, tc.target, resp.StatusCode)
		}
	}
}

func TestListAppliesQueryFilters(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.create(t, "Salary", "2026-01-01", 500000, f.typeIncome.ID, f.catHousing.ID)
	f.create(t, "Groceries", "2026-01-15", 1250, f.typeExpense.ID, f.catFood.ID)
	f.create(t, "Rent", "2026-01-05", 90000, f.typeExpense.ID, f.catHousing.ID)

	// Comma list with stray whitespace and a trailing separator.
	resp := f.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/transactions?types=%s,+", f.typeExpense.ID), nil, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("type filter = %d, want 200", resp.StatusCode)
	}
	page := decodePage(t, resp)
	if page.TotalItems != 2 {
		t.Fatalf("expected 2 expense rows, got %d", page.TotalItems)
	}

	resp = f.request(t, http.MethodGet,
		"/api/v1/transactions?date_from=2026-01-10&date_to=2026-01-31&amount_min=1000&amount_max=2000", nil, true)
	page = decodePage(t, resp)
	if page.TotalItems != 1 || page.Data[0].Name != "Groceries" {
		t.Fatalf("expected date+amount intersection to yield Groceries, got %+v", page.Data)
	}

	resp = f.request(t, http.MethodGet, "/api/v1/transactions?search=GROCER", nil, true)
	page = decodePage(t, resp)
	if page.TotalItems != 1 || page.Data[0].Name != "Groceries" {
		t.Fatalf("expected case-insensitive search match, got %+v", page.Data)
	}

	resp = f.request(t, http.MethodGet, "/api/v1/transactions?page=2&page_size=2", nil, true)
	page = decodePage(t, resp)
	if len(page.Data) != 1 || page.TotalPages != 2 {
		t.Fatalf("expected 1 row on page 2 of 2, got %d rows, %d pages", len(page.Data), page.TotalPages)
	}
}

func TestUnknownTransactionIDReturns404(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	kept := f.create(t, "Groceries", "2026-01-15", 1250, f.typeExpense.ID, f.catFood.ID)

	resp := f.request(t, http.MethodPut, "/api/v1/transactions/"+uuid.NewString(),
		map[string]interface{}{"amount": 1}, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update unknown id = %d, want 404", resp.StatusCode)
	}

	resp = f.request(t, http.MethodDelete, "/api/v1/transactions/"+uuid.NewString(), nil, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete unknown id = %d, want 404", resp.StatusCode)
	}

	// A deleted row is gone for every later mutation.
	resp = f.request(t, http.MethodDelete, "/api/v1/transactions/"+kept.ID, nil, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", resp.StatusCode)
	}
	resp = f.request(t, http.MethodDelete, "/api/v1/transactions/"+kept.ID, nil, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete of deleted id = %d, want 404", resp.StatusCode)
	}
}

func TestCreateValidationMapsToBadRequest(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	resp := f.request(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"amount":            100,
		"date":              "2026-01-15",
		"type_id":           f.typeExpense.ID.String(),
		"category_id":       f.catFood.ID.String(),
		"payment_method_id": f.paymentCard.ID.String(),
	}, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name = %d, want 400", resp.StatusCode)
	}

	resp = f.request(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"name":              "Refund",
		"amount":            -1,
		"date":              "2026-01-15",
		"type_id":           f.typeExpense.ID.String(),
		"category_id":       f.catFood.ID.String(),
		"payment_method_id": f.paymentCard.ID.String(),
	}, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative amount = %d, want 400", resp.StatusCode)
	}
}

func TestMissingApprovedStatusIsServerError(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	if err := f.db.Where("name = ?", models.StatusApproved).Delete(&models.TransactionStatus{}).Error; err != nil {
		t.Fatalf("remove approved status: %v", err)
	}

	resp := f.request(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"name":              "Groceries",
		"amount":            1250,
		"date":              "2026-01-15",
		"type_id":           f.typeExpense.ID.String(),
		"category_id":       f.catFood.ID.String(),
		"payment_method_id": f.paymentCard.ID.String(),
	}, true)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("missing APPROVED status = %d, want 500", resp.StatusCode)
	}
}

func TestExportFormatsAndContentType(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.create(t, "Groceries", "2026-01-15", 1250, f.typeExpense.ID, f.catFood.ID)

	cases := []struct {
		format      string
		contentType string
	}{
		{"csv", "text/csv"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"pdf", "application/pdf"},
	}
	for _, tc := range cases {
		resp := f.request(t, http.MethodGet, "/api/v1/transactions/export?format="+tc.format, nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("export %s = %d, want 200", tc.format, resp.StatusCode)
		}
		if got := resp.Header.Get(fiber.HeaderContentType); got != tc.contentType {
			t.Fatalf("export %s content type = %q, want %q", tc.format, got, tc.contentType)
		}
		if got := resp.Header.Get(fiber.HeaderContentDisposition); got != fmt.Sprintf(`attachment; filename="transactions.%s"`, tc.format) {
			t.Fatalf("export %s disposition = %q", tc.format, got)
		}
	}

	resp := f.request(t, http.MethodGet, "/api/v1/transactions/export?format=doc", nil, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format = %d, want 400", resp.StatusCode)
	}
}
