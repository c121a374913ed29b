package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotient/internal/catalog"
	"github.com/smallbiznis/quotient/internal/cloudmetrics"
	"github.com/smallbiznis/quotient/internal/config"
	"github.com/smallbiznis/quotient/internal/migration"
	"github.com/smallbiznis/quotient/internal/migrationpath"
	"github.com/smallbiznis/quotient/internal/observability"
	"github.com/smallbiznis/quotient/internal/pricing"
	"github.com/smallbiznis/quotient/internal/quote"
	"github.com/smallbiznis/quotient/internal/ratelimit"
	"github.com/smallbiznis/quotient/internal/server"
	"github.com/smallbiznis/quotient/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fx.App
	server  *server.Server
	db      *gorm.DB
	baseURL string
	httpSrv *httptest.Server
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func startEnv() (*testEnv, error) {
	var (
		srv    *server.Server
		dbConn *gorm.DB
	)

	app := fx.New(
		observability.Module,
		config.Module,
		db.Module,
		cloudmetrics.Module,
		catalog.Module,
		pricing.Module,
		quote.Module,
		migrationpath.Module,
		ratelimit.Module,
		migration.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Populate(&srv, &dbConn),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(srv.Engine())

	return &testEnv{
		app:     app,
		server:  srv,
		db:      dbConn,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("LOG_LEVEL", "error")
	setEnvIfEmpty("OTEL_ENABLED", "false")
	setEnvIfEmpty("DATABASE_TYPE", "sqlite")
	setEnvIfEmpty("DATABASE_NAME", "file::memory:?cache=shared")
	setEnvIfEmpty("SEED_DEMO_CATALOG", "true")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

func doJSON(t *testing.T, method, reqURL string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, string(body))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v: %s", err, string(envelope.Data))
	}
}

type productResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func findProduct(t *testing.T, code string) productResponse {
	t.Helper()

	resp, body := doJSON(t, http.MethodGet, env.baseURL+"/v1/catalog/products", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list products: status %d: %s", resp.StatusCode, string(body))
	}

	var products []productResponse
	decodeData(t, body, &products)
	for _, product := range products {
		if product.Code == code {
			return product
		}
	}
	t.Fatalf("product %q not found in catalog", code)
	return productResponse{}
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_SeededCatalog(t *testing.T) {
	resp, body := doJSON(t, http.MethodGet, env.baseURL+"/v1/catalog/products", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, string(body))
	}

	var products []productResponse
	decodeData(t, body, &products)
	if len(products) == 0 {
		t.Fatalf("expected seeded products, got none")
	}

	suite := findProduct(t, "enterprise-suite")
	resp, body = doJSON(t, http.MethodGet, env.baseURL+"/v1/catalog/products/"+suite.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product: status %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2E_PricingPreview(t *testing.T) {
	suite := findProduct(t, "enterprise-suite")

	customerPrice := "12960"
	req := map[string]any{
		"product_id":     suite.ID,
		"customer_price": customerPrice,
	}
	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/v1/pricing/preview", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview: status %d: %s", resp.StatusCode, string(body))
	}

	envelope := struct {
		Totals struct {
			ListPrice       float64 `json:"listPrice"`
			EffectivePrice  float64 `json:"effectivePrice"`
			DiscountPercent float64 `json:"discountPercent"`
		} `json:"totals"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode preview: %v: %s", err, string(body))
	}

	// Perpetual License: 12000 base license plus 2400 maintenance.
	if envelope.Totals.ListPrice != 14400 {
		t.Fatalf("expected list price 14400, got %v", envelope.Totals.ListPrice)
	}
	if envelope.Totals.EffectivePrice != 12960 {
		t.Fatalf("expected effective price 12960, got %v", envelope.Totals.EffectivePrice)
	}
	if envelope.Totals.DiscountPercent != 10.0 {
		t.Fatalf("expected discount 10.0, got %v", envelope.Totals.DiscountPercent)
	}
}

type quoteViewResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Items    []struct {
		ID            string   `json:"id"`
		ProductID     string   `json:"product_id"`
		Price         float64  `json:"price"`
		CustomerPrice *float64 `json:"customer_price"`
	} `json:"items"`
	Totals struct {
		ListTotal       float64 `json:"listTotal"`
		CustomerTotal   float64 `json:"customerTotal"`
		DiscountPercent float64 `json:"discountPercent"`
	} `json:"totals"`
}

func TestE2E_QuoteLifecycle(t *testing.T) {
	suite := findProduct(t, "enterprise-suite")

	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/v1/quotes", map[string]any{
		"name": "Contoso renewal",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quote: status %d: %s", resp.StatusCode, string(body))
	}
	var created quoteViewResponse
	decodeData(t, body, &created)
	if created.Status != "DRAFT" {
		t.Fatalf("expected DRAFT quote, got %s", created.Status)
	}

	resp, body = doJSON(t, http.MethodPost, env.baseURL+"/v1/quotes/"+created.ID+"/products", map[string]any{
		"product_id": suite.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add product: status %d: %s", resp.StatusCode, string(body))
	}
	var withItem quoteViewResponse
	decodeData(t, body, &withItem)
	if len(withItem.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(withItem.Items))
	}
	if withItem.Totals.ListTotal != 14400 {
		t.Fatalf("expected list total 14400, got %v", withItem.Totals.ListTotal)
	}

	resp, body = doJSON(t, http.MethodPut, env.baseURL+"/v1/quotes/"+created.ID+"/customer-price", map[string]any{
		"item_id":        withItem.Items[0].ID,
		"customer_price": "12960",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set customer price: status %d: %s", resp.StatusCode, string(body))
	}
	var discounted quoteViewResponse
	decodeData(t, body, &discounted)
	if discounted.Totals.CustomerTotal != 12960 {
		t.Fatalf("expected customer total 12960, got %v", discounted.Totals.CustomerTotal)
	}
	if discounted.Totals.DiscountPercent != 10.0 {
		t.Fatalf("expected discount 10.0, got %v", discounted.Totals.DiscountPercent)
	}

	resp, body = doJSON(t, http.MethodDelete, env.baseURL+"/v1/quotes/"+created.ID+"/products/"+withItem.Items[0].ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove product: status %d: %s", resp.StatusCode, string(body))
	}
	var emptied quoteViewResponse
	decodeData(t, body, &emptied)
	if len(emptied.Items) != 0 {
		t.Fatalf("expected no items after removal, got %d", len(emptied.Items))
	}

	resp, body = doJSON(t, http.MethodDelete, env.baseURL+"/v1/quotes/"+created.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete quote: status %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = doJSON(t, http.MethodGet, env.baseURL+"/v1/quotes/"+created.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestE2E_MigrationSummary(t *testing.T) {
	suite := findProduct(t, "enterprise-suite")
	vault := findProduct(t, "archive-vault")

	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/v1/quotes", map[string]any{
		"name": "Fabrikam migration",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quote: status %d: %s", resp.StatusCode, string(body))
	}
	var quoteView quoteViewResponse
	decodeData(t, body, &quoteView)

	for _, productID := range []string{suite.ID, vault.ID} {
		resp, body = doJSON(t, http.MethodPost, env.baseURL+"/v1/quotes/"+quoteView.ID+"/products", map[string]any{
			"product_id": productID,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add product %s: status %d: %s", productID, resp.StatusCode, string(body))
		}
	}

	resp, body = doJSON(t, http.MethodPost, env.baseURL+"/v1/migration-paths/summary", map[string]any{
		"quote_id": quoteView.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: status %d: %s", resp.StatusCode, string(body))
	}

	summary := struct {
		CurrentValue  float64 `json:"currentValue"`
		Paths         []struct {
			Title         string  `json:"title"`
			TotalValue    float64 `json:"totalValue"`
			PercentChange float64 `json:"percentChange"`
		} `json:"paths"`
		NonMigratable []struct {
			ProductID string `json:"productId"`
			Reason    string `json:"reason"`
		} `json:"nonMigratable"`
	}{}
	decodeData(t, body, &summary)

	// Enterprise Suite 14400 plus Archive Vault 4800.
	if summary.CurrentValue != 19200 {
		t.Fatalf("expected current value 19200, got %v", summary.CurrentValue)
	}
	if len(summary.Paths) != 1 {
		t.Fatalf("expected one path, got %d", len(summary.Paths))
	}
	if summary.Paths[0].TotalValue != 9000 {
		t.Fatalf("expected path total 9000, got %v", summary.Paths[0].TotalValue)
	}
	if summary.Paths[0].PercentChange != -53.1 {
		t.Fatalf("expected percent change -53.1, got %v", summary.Paths[0].PercentChange)
	}

	if len(summary.NonMigratable) != 1 {
		t.Fatalf("expected one non-migratable product, got %d", len(summary.NonMigratable))
	}
	if summary.NonMigratable[0].ProductID != vault.ID {
		t.Fatalf("expected archive vault flagged, got %s", summary.NonMigratable[0].ProductID)
	}
	if summary.NonMigratable[0].Reason == "" {
		t.Fatalf("expected fallback reason text, got empty string")
	}

	resp, body = doJSON(t, http.MethodDelete, env.baseURL+"/v1/quotes/"+quoteView.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cleanup quote: status %d: %s", resp.StatusCode, string(body))
	}
}
