package importexport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/auth"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/gateway"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)

	user := models.User{Email: "op@example.com", PasswordHash: "x", Name: "Operator", SystemRole: models.SystemRoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	for i, name := range []string{"Inbox", "Working"} {
		cat := models.Category{Name: name, DisplayOrder: i + 1}
		if err := db.Create(&cat).Error; err != nil {
			t.Fatalf("Failed to create category: %v", err)
		}
	}

	st := store.New(gateway.New(db, user.ID), board.DefaultSocialLinks())
	if err := st.Initialize(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	return st
}

func setupTestRouter(st *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(st)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, _ := auth.GenerateToken(1, "op@example.com", "admin")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestExport(t *testing.T) {
	st := setupTestStore(t)
	router := setupTestRouter(st)
	tag, _ := st.AddTag("docs", "#ff0000")
	inbox := st.Categories()[0]
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})
	st.TogglePinned(inbox.ID, link.ID)

	resp := doJSON(t, router, "GET", "/api/export", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var export BoardExport
	json.Unmarshal(resp.Body.Bytes(), &export)

	if len(export.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(export.Categories))
	}
	if export.Categories[0].Title != "Inbox" {
		t.Errorf("Expected Inbox first, got %s", export.Categories[0].Title)
	}
	inboxLinks := export.Categories[0].Links
	if len(inboxLinks) != 1 {
		t.Fatalf("Expected 1 link in Inbox, got %d", len(inboxLinks))
	}
	if inboxLinks[0].Name != "Docs" || !inboxLinks[0].IsPinned {
		t.Errorf("Unexpected exported link: %+v", inboxLinks[0])
	}
	if len(inboxLinks[0].Tags) != 1 || inboxLinks[0].Tags[0] != "docs" {
		t.Errorf("Expected tag names on links, got %v", inboxLinks[0].Tags)
	}
	if len(export.Tags) != 1 || export.Tags[0].Color != "#ff0000" {
		t.Errorf("Unexpected exported tags: %v", export.Tags)
	}
}

func TestImport(t *testing.T) {
	st := setupTestStore(t)
	router := setupTestRouter(st)
	st.AddTag("docs", "#ff0000")
	inbox := st.Categories()[0]

	body := ImportRequest{
		CategoryID: inbox.ID,
		Links: []ImportLink{
			{Name: "Docs", URL: "https://docs.example.com", Tags: []string{"docs"}},
			{Name: "Profiler", URL: "https://tools.example.com", Tags: []string{"tools"}},
		},
	}
	resp := doJSON(t, router, "POST", "/api/import", body)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result ImportResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("Expected 2 imported, got %+v", result)
	}

	// The unknown tag was created on the fly with the default color
	tags := st.Tags()
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags after import, got %d", len(tags))
	}
	if tags[1].Name != "tools" || tags[1].Color != defaultImportColor {
		t.Errorf("Unexpected created tag: %+v", tags[1])
	}

	for _, cat := range st.Categories() {
		if cat.ID == inbox.ID && len(cat.Links) != 2 {
			t.Errorf("Expected 2 links in Inbox, got %d", len(cat.Links))
		}
	}
}

func TestImportSkipsTaglessLinks(t *testing.T) {
	st := setupTestStore(t)
	router := setupTestRouter(st)
	inbox := st.Categories()[0]

	body := ImportRequest{
		CategoryID: inbox.ID,
		Links: []ImportLink{
			{Name: "Untagged", URL: "https://x.example.com"},
		},
	}
	resp := doJSON(t, router, "POST", "/api/import", body)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result ImportResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Imported != 0 || result.Skipped != 1 {
		t.Errorf("Expected the tagless link skipped, got %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected one error message, got %v", result.Errors)
	}
}

func TestImportUnknownCategory(t *testing.T) {
	st := setupTestStore(t)
	router := setupTestRouter(st)

	body := ImportRequest{
		CategoryID: 999,
		Links: []ImportLink{
			{Name: "Docs", URL: "https://docs.example.com", Tags: []string{"docs"}},
		},
	}
	resp := doJSON(t, router, "POST", "/api/import", body)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	st := setupTestStore(t)
	router := setupTestRouter(st)
	tag, _ := st.AddTag("docs", "#ff0000")
	inbox := st.Categories()[0]
	working := st.Categories()[1]
	st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})

	resp := doJSON(t, router, "GET", "/api/export", nil)
	var export BoardExport
	json.Unmarshal(resp.Body.Bytes(), &export)

	// Re-import the Inbox snapshot into Working
	req := ImportRequest{CategoryID: working.ID}
	for _, l := range export.Categories[0].Links {
		req.Links = append(req.Links, ImportLink{Name: l.Name, URL: l.URL, Tags: l.Tags})
	}
	resp = doJSON(t, router, "POST", "/api/import", req)

	var result ImportResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Imported != 1 {
		t.Fatalf("Expected 1 imported, got %+v", result)
	}

	for _, cat := range st.Categories() {
		if cat.ID == working.ID {
			if len(cat.Links) != 1 || cat.Links[0].Name != "Docs" {
				t.Errorf("Expected Docs copied into Working, got %v", cat.Links)
			}
		}
	}
}
