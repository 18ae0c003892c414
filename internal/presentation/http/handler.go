package httppresentation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mak6096-commits/orders-inventory/internal/application/catalog"
	apporder "github.com/mak6096-commits/orders-inventory/internal/application/order"
	"github.com/mak6096-commits/orders-inventory/internal/application/payment"
	domorder "github.com/mak6096-commits/orders-inventory/internal/domain/order"
	domprod "github.com/mak6096-commits/orders-inventory/internal/domain/product"
	"github.com/mak6096-commits/orders-inventory/internal/metrics"
	"go.uber.org/zap"
)

type Handler struct {
	catalog  *catalog.Service
	orders   *apporder.Service
	webhooks *payment.Processor
	log      *zap.Logger
	mx       *metrics.Metrics
}

func NewHandler(catalogSvc *catalog.Service, orderSvc *apporder.Service, webhooks *payment.Processor,
	logger *zap.Logger, mx *metrics.Metrics,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:  catalogSvc,
		orders:   orderSvc,
		webhooks: webhooks,
		log:      logger.With(zap.String("component", "http_server")),
		mx:       mx,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(h.withRequestLogger)
	r.Use(h.withTrace)
	r.Use(h.withMetrics)
	r.Use(h.withAccessLog)
	r.Use(chimiddleware.Timeout(15 * time.Second))

	r.Post("/products", h.handleCreateProduct)
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{id}", h.handleGetProduct)
	r.Put("/products/{id}", h.handleUpdateProduct)
	r.Delete("/products/{id}", h.handleDeleteProduct)

	r.Post("/orders", h.handleCreateOrder)
	r.Get("/orders", h.handleListOrders)
	r.Get("/orders/{id}", h.handleGetOrder)
	r.Put("/orders/{id}", h.handleUpdateOrder)
	r.Post("/orders/{id}/cancel", h.handleCancelOrder)
	r.Delete("/orders/{id}", h.handleDeleteOrder)

	r.Post("/webhooks/payment", h.handlePaymentWebhook)

	r.Get("/health", h.handleHealth)

	return r
}

type productRequest struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type productPatchRequest struct {
	SKU   *string  `json:"sku"`
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int     `json:"stock"`
}

type productResponse struct {
	ID    int64   `json:"id"`
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func toProductResponse(p *domprod.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		SKU:   p.SKU,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.catalog.CreateProduct(r.Context(), catalog.CreateProductInput{
		SKU:   req.SKU,
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req productPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), id, domprod.Patch{
		SKU:   req.SKU,
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createOrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Status    domorder.Status `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.orders.CreateOrder(r.Context(), apporder.CreateOrderInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status, err := domorder.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := h.orders.CancelOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePaymentWebhook verifies the signature over the raw body bytes exactly
// as received; parsing happens only after verification.
func (h *Handler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.webhooks.Process(r.Context(), body, r.Header.Get(payment.SignatureHeader))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	ProductsCount int    `json:"products_count"`
	OrdersCount   int    `json:"orders_count"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		Service:       "orders-inventory",
		ProductsCount: len(products),
		OrdersCount:   len(orders),
	})
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var insufficientStock *domprod.InsufficientStockError
	var invalidTransition *domorder.InvalidTransitionError

	switch {
	case errors.Is(err, domprod.ErrNotFound),
		errors.Is(err, domorder.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domprod.ErrSKUExists),
		errors.Is(err, domprod.ErrHasActiveOrders),
		errors.Is(err, domorder.ErrNotCanceled),
		errors.As(err, &insufficientStock):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domprod.ErrInvalidSKU),
		errors.Is(err, domprod.ErrInvalidPrice),
		errors.Is(err, domprod.ErrInvalidStock),
		errors.Is(err, domprod.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidProduct),
		errors.Is(err, domorder.ErrUnknownStatus),
		errors.Is(err, payment.ErrInvalidPayload),
		errors.As(err, &invalidTransition):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, payment.ErrMissingSignature):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, payment.ErrInvalidSignature):
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
