package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/backend"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/currency"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB starts a PostgreSQL container and creates the state table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "storefront",
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// CleanupDB removes all persisted state.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM storefront_state"); err != nil {
		t.Logf("failed to clean state table: %v", err)
	}
}

// catalogJSON is the backend product list. Product 5 is unavailable and
// product 6 has no image.
const catalogJSON = `[
	{"id": 1, "nombre": "Café molido", "precio": 10, "categoria": "bebidas", "descripcion": "Tostado oscuro", "imagen": "/img/cafe.jpg"},
	{"id": 2, "nombre": "Arroz", "precio": 5, "categoria": "granos", "descripcion": "Grano largo", "imagen": "https://cdn.example.com/arroz.jpg"},
	{"id": 3, "nombre": "Caraotas", "precio": 4.25, "categoria": "granos", "descripcion": "Negras", "imagen": "/img/caraotas.jpg", "disponible": true},
	{"id": 4, "nombre": "Té verde", "precio": 7.5, "categoria": "bebidas", "descripcion": "En hojas", "imagen": "/img/te.jpg"},
	{"id": 5, "nombre": "Harina", "precio": 3, "categoria": "granos", "descripcion": "De maíz", "imagen": "/img/harina.jpg", "disponible": false},
	{"id": 6, "nombre": "Azúcar", "precio": 2.1, "categoria": "endulzantes", "descripcion": "Refinada", "imagen": ""},
	{"id": 7, "nombre": "Papelón", "precio": 1.8, "categoria": "endulzantes", "descripcion": "Panela", "imagen": "/img/papelon.jpg"},
	{"id": 8, "nombre": "Chocolate", "precio": 6, "categoria": "bebidas", "descripcion": "Cacao 70%", "imagen": "/img/chocolate.jpg"}
]`

// FakeBackend serves the catalog and rate endpoints.
type FakeBackend struct {
	Server       *httptest.Server
	CatalogCalls atomic.Int32
	RateCalls    atomic.Int32

	mu          sync.Mutex
	catalogDown bool
	rateBody    string
}

// NewFakeBackend starts a backend returning catalogJSON and a 40.00 rate.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{rateBody: `{"tasaCambio": 40, "monedaLocal": "Bs."}`}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/productos", func(w http.ResponseWriter, r *http.Request) {
		b.CatalogCalls.Add(1)
		b.mu.Lock()
		down := b.catalogDown
		b.mu.Unlock()

		if down {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	})
	mux.HandleFunc("/api/config/tasa", func(w http.ResponseWriter, r *http.Request) {
		b.RateCalls.Add(1)
		b.mu.Lock()
		body := b.rateBody
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)

	return b
}

// SetCatalogDown makes the catalog endpoint fail with 503.
func (b *FakeBackend) SetCatalogDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogDown = down
}

// SetRateBody replaces the rate endpoint payload.
func (b *FakeBackend) SetRateBody(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rateBody = body
}

// App is a started storefront wired exactly like the binary.
type App struct {
	Service service.StorefrontService
	Handler http.Handler
}

// StartApp builds the full stack against backend and store and runs Start.
func StartApp(t *testing.T, b *FakeBackend, store storage.Store) *App {
	t.Helper()

	logger := zerolog.Nop()
	origin := b.Server.URL

	httpClient := backend.NewClient(5*time.Second, logger)
	catalogClient := catalog.NewClient(httpClient, origin+"/api/productos", origin, "", logger)
	rateClient := currency.NewRateClient(httpClient, origin+"/api/config/tasa", logger)

	svc := service.NewStorefrontService(catalogClient, rateClient, store, service.Options{PageSize: 6}, logger)
	svc.Start(context.Background())

	return &App{
		Service: svc,
		Handler: router.New(handler.NewStorefrontHandler(svc, logger), []string{"*"}, logger),
	}
}
