package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kurtlexicon/vending-service/internal/app/vending/domain"
	"github.com/kurtlexicon/vending-service/internal/app/vending/service"
	"github.com/kurtlexicon/vending-service/internal/transport/http/response"
)

// VendingHandler handles HTTP requests for the vending machine.
type VendingHandler struct {
	service *service.VendingService
	logger  *slog.Logger
}

// NewVendingHandler creates a new vending handler.
func NewVendingHandler(svc *service.VendingService, logger *slog.Logger) *VendingHandler {
	return &VendingHandler{
		service: svc,
		logger:  logger,
	}
}

// GetMachine handles GET /machine.
func (h *VendingHandler) GetMachine(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, MachineResponse{
		Balance:      status.Balance,
		BalanceText:  status.BalanceText,
		AllowedCoins: status.AllowedCoins,
		LowestPrice:  status.LowestPrice,
	})
}

// ListProducts handles GET /products.
func (h *VendingHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.toProductResponses(h.service.Products(r.Context())))
}

// InsertCoin handles POST /coins.
func (h *VendingHandler) InsertCoin(w http.ResponseWriter, r *http.Request) {
	var req InsertCoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	balance, err := h.service.InsertCoin(r.Context(), req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDenomination) {
			response.Error(w, http.StatusBadRequest, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, BalanceResponse{
		Balance:     balance,
		BalanceText: h.service.AmountString(balance),
	})
}

// Purchase handles POST /purchases.
func (h *VendingHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Purchase(r.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			response.Error(w, http.StatusNotFound, err)
		case errors.Is(err, domain.ErrBalanceTooLow):
			response.Error(w, http.StatusPaymentRequired, err)
		default:
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, PurchaseResponse{
		Usage:       result.Usage,
		Balance:     result.Balance,
		BalanceText: result.BalanceText,
	})
}

// EndTransaction handles POST /transaction/end.
func (h *VendingHandler) EndTransaction(w http.ResponseWriter, r *http.Request) {
	result := h.service.EndTransaction(r.Context())
	response.JSON(w, http.StatusOK, ChangeResponse{
		Coins:    result.Coins,
		Returned: result.Returned,
	})
}

// ListCustomProducts handles GET /admin/products.
func (h *VendingHandler) ListCustomProducts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.toProductResponses(h.service.CustomProducts(r.Context())))
}

// AddProduct handles POST /admin/products.
func (h *VendingHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	ok, err := h.service.AddProduct(r.Context(), req.Name, req.Description, req.Usage, req.Price)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		response.Error(w, http.StatusConflict, errors.New("product name already exists"))
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// ChangeProduct handles PATCH /admin/products/{name}.
func (h *VendingHandler) ChangeProduct(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req ChangeProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	ok, err := h.service.ChangeProduct(r.Context(), name, req.Description, req.Usage, req.Price)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		response.Error(w, http.StatusNotFound, errors.New("no editable product with that name"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSales handles GET /admin/sales.
func (h *VendingHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			response.Error(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.RecentSales(r.Context(), limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	sales := make([]SaleResponse, 0, len(entries))
	for _, e := range entries {
		sales = append(sales, SaleResponse{
			EntryID:     e.EntryID,
			Kind:        e.Kind,
			ProductName: e.ProductName,
			Amount:      e.Amount,
			Forfeited:   e.Forfeited,
			Change:      e.Change,
			OccurredAt:  e.OccurredAt,
		})
	}
	response.JSON(w, http.StatusOK, sales)
}

// RemoveProduct handles DELETE /admin/products/{name}.
func (h *VendingHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if !h.service.RemoveProduct(r.Context(), name) {
		response.Error(w, http.StatusNotFound, errors.New("no removable product with that name"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VendingHandler) toProductResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{
			Name:        p.Name(),
			Description: p.Description(),
			Usage:       p.Usage(),
			Price:       p.Price(),
			PriceText:   h.service.AmountString(p.Price()),
			Mutable:     p.Mutable(),
		})
	}
	return out
}
