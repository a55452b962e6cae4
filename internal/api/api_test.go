package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	infragin "github.com/barjames/funeral-planner/infrastructure/gin"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/api"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/barjames/funeral-planner/internal/database"
	"github.com/barjames/funeral-planner/internal/document"
	"github.com/barjames/funeral-planner/internal/media"
	"github.com/barjames/funeral-planner/internal/metrics"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/repository"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testApp struct {
	deps api.Dependencies
	db   *database.DB
}

func newTestApp(t *testing.T, staticDir string) *testApp {
	t.Helper()

	log := infralogger.NewNop()
	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "planner.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 1,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.MigrateUp(db, log))

	m := metrics.New()
	repo := repository.NewContentRepository(db.SQLX(), log)
	svc := service.NewContentService(repo, log, service.WithPublisher(m.Lifecycle()))

	return &testApp{
		db: db,
		deps: api.Dependencies{
			Content:          svc,
			Importer:         svc,
			Generator:        document.NewGenerator(repo, log, document.WithObserver(m.ObserveDocument)),
			Metrics:          m,
			Logger:           log,
			PDFRatePerMinute: 2,
			ImportMaxBytes:   1 << 20,
			StaticDir:        staticDir,
		},
	}
}

func (a *testApp) router() *gin.Engine {
	r := gin.New()
	api.SetupRoutes(a.deps)(r)
	return r
}

func call(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func create(t *testing.T, r http.Handler, category string, req models.CreateRequest) models.ContentItem {
	t.Helper()

	w := call(t, r, http.MethodPost, "/api/content/"+category, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item models.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	return item
}

func TestContentLifecycle(t *testing.T) {
	t.Parallel()

	r := newTestApp(t, "").router()

	w := call(t, r, http.MethodGet, "/api/content/readings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	first := create(t, r, "readings", models.CreateRequest{Title: "Psalm 23", Content: "The Lord is my shepherd"})
	second := create(t, r, "readings", models.CreateRequest{Title: "John 11:25", Content: "I am the resurrection"})

	w = call(t, r, http.MethodGet, "/api/content/readings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, "The Lord is my shepherd", items[0].Content)

	w = call(t, r, http.MethodDelete, "/api/content/readings/"+first.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"message":"readings item deleted successfully","deletedItemId":"`+first.ID+`"}`,
		w.Body.String())

	w = call(t, r, http.MethodDelete, "/api/content/readings/"+first.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, r, http.MethodDelete, "/api/content/readings/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid ID format: not-an-id"}`, w.Body.String())
}

func TestCategoriesAreIsolated(t *testing.T) {
	t.Parallel()

	r := newTestApp(t, "").router()

	song := create(t, r, "music", models.CreateRequest{Title: "Amazing Grace", Link: "https://youtu.be/CDdvReNKKuk"})
	assert.Equal(t, "https://youtu.be/CDdvReNKKuk", song.Link)

	w := call(t, r, http.MethodGet, "/api/content/poems", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = call(t, r, http.MethodDelete, "/api/content/poems/"+song.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"poems item with ID `+song.ID+` not found."}`, w.Body.String())
}

func TestMusicLinkRoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestApp(t, "").router()

	const link = "https://youtu.be/abc12345678"
	song := create(t, r, "music", models.CreateRequest{Title: "Ave Maria", Link: link})
	assert.Equal(t, "Ave Maria", song.Title)
	assert.Equal(t, link, song.Link)

	w := call(t, r, http.MethodGet, "/api/content/music", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, song.ID, items[0].ID)
	assert.Equal(t, link, items[0].Link)

	id, ok := media.YouTubeID(items[0].Link)
	require.True(t, ok)
	assert.Equal(t, "abc12345678", id)
	assert.Equal(t, "https://www.youtube.com/embed/abc12345678", media.EmbedURL(items[0].Link))
}

func TestGeneratePDF(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, "")
	r := app.router()

	psalm := create(t, r, "readings", models.CreateRequest{Title: "Psalm 23", Content: "<p>The Lord is my shepherd</p>"})
	song := create(t, r, "music", models.CreateRequest{Title: "Amazing Grace", Link: "https://youtu.be/CDdvReNKKuk"})

	w := call(t, r, http.MethodPost, "/api/pdf/generate", models.GenerateRequest{Wishlist: models.Wishlist{
		"readings": {psalm.ID, psalm.ID, "garbage"},
		"music":    {song.ID},
		"hymns":    {song.ID},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="funeral_plan.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = call(t, r, http.MethodPost, "/api/pdf/generate", models.GenerateRequest{Wishlist: models.Wishlist{
		"readings": {"3f1c9a2e-8b7d-4c6e-9f10-2a3b4c5d6e7f"},
	}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No valid items selected")

	w = call(t, r, http.MethodPost, "/api/pdf/generate", models.GenerateRequest{})
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "third request exceeds the limit of two per minute")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	r := newTestApp(t, "").router()
	create(t, r, "poems", models.CreateRequest{Title: "Crossing the Bar", Content: "Sunset and evening star"})

	w := call(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `planner_content_created_total{category="poems"} 1`)
	assert.Contains(t, body, `planner_http_requests_total{method="POST",route="/api/content/:category",status="201"} 1`)
}

func TestUnknownPaths(t *testing.T) {
	t.Parallel()

	r := newTestApp(t, "").router()

	w := call(t, r, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())

	w = call(t, r, http.MethodGet, "/api/content/hymns", nil)
	assert.JSONEq(t, `{"message":"Content type 'hymns' not found."}`, w.Body.String())
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Planner</h1>"), 0o600))

	r := newTestApp(t, dir).router()

	w := call(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Planner</h1>")

	w = call(t, r, http.MethodGet, "/api/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Runs serially: building the server sets gin's global mode.
func TestServerBuilder_HealthAndRequestID(t *testing.T) {
	app := newTestApp(t, "")
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	srv := infragin.NewServerBuilder("funeral-planner", 0).
		WithLogger(infralogger.NewNop()).
		WithVersion("test").
		WithDatabaseHealthCheck(func() error { return app.db.Ping(context.Background()) }).
		WithRoutes(api.SetupRoutes(app.deps)).
		Build()

	w := call(t, srv.Router(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = call(t, srv.Router(), http.MethodGet, "/api/content/gospels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(infragin.RequestIDHeader), 32)
}
