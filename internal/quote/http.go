package quote

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Jottis18/sistema-orcamentos/internal/validation"
	"github.com/Jottis18/sistema-orcamentos/pkg/kit"
)

type Server struct {
	Store    Store
	Log      *zap.Logger
	Validate *validator.Validate
}

func (s *Server) ListHandler() http.HandlerFunc   { return s.list }
func (s *Server) CreateHandler() http.HandlerFunc { return s.create }
func (s *Server) GetHandler() http.HandlerFunc    { return s.get }
func (s *Server) DeleteHandler() http.HandlerFunc { return s.delete }

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list quotes failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, quotes)
}

// itemReq trusts the caller's name and price: the client copied them from
// the catalog when the quote was composed, and they are stored as-is to
// preserve historical pricing. productId is not checked against the catalog.
type itemReq struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type createReq struct {
	Client string    `json:"client" validate:"required"`
	Items  []itemReq `json:"items" validate:"required,min=1,dive"`
	Notes  string    `json:"notes"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := validation.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "client and items are required", validation.Fields(err))
		return
	}

	items := make([]LineItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		sub := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(sub)

		items = append(items, LineItem{
			ID:        uuid.NewString(),
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  sub.InexactFloat64(),
		})
	}

	q := Quote{
		ID:        uuid.NewString(),
		Client:    req.Client,
		Notes:     req.Notes,
		Items:     items,
		Total:     total.InexactFloat64(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Create(r.Context(), q); err != nil {
		if s.Log != nil {
			s.Log.Error("create quote failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, q)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get quote failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "quote not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, q)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete quote failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "quote not found", map[string]any{"id": id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
