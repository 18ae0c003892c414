// Command smoke exercises a running orders-inventory instance end to end:
// product CRUD, the stock-reservation path including an expected oversell
// rejection, a signed payment webhook with a duplicate replay, cancellation,
// and the delete gates. It exits non-zero on the first failure.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mak6096-commits/orders-inventory/internal/application/payment"
)

type client struct {
	base   string
	secret []byte
	http   *http.Client
}

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("base-url", envDefault("SMOKE_BASE_URL", "http://localhost:8080"), "service base URL")
	secret := flag.String("secret", envDefault("WEBHOOK_SECRET", "webhook-secret-key"), "webhook shared secret")
	flag.Parse()

	c := &client{
		base:   *baseURL,
		secret: []byte(*secret),
		http:   &http.Client{Timeout: 10 * time.Second},
	}

	sku := "SMOKE-" + uuid.NewString()[:8]

	// Product with 5 units in stock.
	var product struct {
		ID    int64 `json:"id"`
		Stock int   `json:"stock"`
	}
	c.call("POST", "/products", map[string]any{
		"sku":   sku,
		"name":  "Smoke Test Product",
		"price": 10.0,
		"stock": 5,
	}, http.StatusCreated, &product)
	log.Printf("created product id=%d stock=%d", product.ID, product.Stock)

	// Order 3 units; stock drops to 2.
	var order struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	c.call("POST", "/orders", map[string]any{
		"product_id": product.ID,
		"quantity":   3,
	}, http.StatusCreated, &order)
	if order.Status != "PENDING" {
		log.Fatalf("expected PENDING order, got %s", order.Status)
	}
	log.Printf("created order id=%d status=%s", order.ID, order.Status)

	// A second 3-unit order must be rejected: only 2 units remain.
	c.call("POST", "/orders", map[string]any{
		"product_id": product.ID,
		"quantity":   3,
	}, http.StatusConflict, nil)
	log.Printf("oversell rejected as expected")

	// Signed payment webhook marks the order PAID.
	paymentID := "pay_" + uuid.NewString()[:8]
	event, err := json.Marshal(map[string]any{
		"event_type": "payment.succeeded",
		"order_id":   order.ID,
		"payment_id": paymentID,
		"amount":     30.0,
	})
	if err != nil {
		log.Fatalf("marshal webhook event: %v", err)
	}

	var result struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	c.webhook(event, http.StatusOK, &result)
	if result.Status != "processed" {
		log.Fatalf("expected processed webhook, got %s (%s)", result.Status, result.Reason)
	}
	log.Printf("webhook processed, order paid")

	// Replaying the identical payload must be suppressed.
	c.webhook(event, http.StatusOK, &result)
	if result.Status != "ignored" || result.Reason != "duplicate_event" {
		log.Fatalf("expected duplicate suppression, got %s (%s)", result.Status, result.Reason)
	}
	log.Printf("duplicate webhook suppressed")

	// Product deletion is blocked while the paid order is live.
	c.call("DELETE", fmt.Sprintf("/products/%d", product.ID), nil, http.StatusConflict, nil)

	// Cancel restores stock and unblocks deletion.
	c.call("POST", fmt.Sprintf("/orders/%d/cancel", order.ID), nil, http.StatusOK, nil)
	c.call("GET", fmt.Sprintf("/products/%d", product.ID), nil, http.StatusOK, &product)
	if product.Stock != 5 {
		log.Fatalf("expected stock restored to 5, got %d", product.Stock)
	}
	c.call("DELETE", fmt.Sprintf("/orders/%d", order.ID), nil, http.StatusNoContent, nil)
	c.call("DELETE", fmt.Sprintf("/products/%d", product.ID), nil, http.StatusNoContent, nil)

	log.Printf("smoke test passed")
}

func (c *client) call(method, path string, body any, wantStatus int, out any) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("%s %s: marshal body: %v", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.do(req, wantStatus, out)
}

func (c *client) webhook(event []byte, wantStatus int, out any) {
	req, err := http.NewRequest("POST", c.base+"/webhooks/payment", bytes.NewReader(event))
	if err != nil {
		log.Fatalf("POST /webhooks/payment: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payment.SignatureHeader, payment.Sign(c.secret, event))
	c.do(req, wantStatus, out)
}

func (c *client) do(req *http.Request, wantStatus int, out any) {
	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		log.Fatalf("%s %s: want status %d, got %d: %s", req.Method, req.URL.Path, wantStatus, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			log.Fatalf("%s %s: decode response: %v", req.Method, req.URL.Path, err)
		}
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
