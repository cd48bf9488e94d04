package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
func (s *Server) UpdateHandler() http.HandlerFunc { return s.update }
func (s *Server) DeleteHandler() http.HandlerFunc { return s.delete }

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

// Price is required and falsy-checked, so 0 is rejected the same as absent.
type createReq struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := validation.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "name and price are required", validation.Fields(err))
		return
	}

	p := Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Store.Create(r.Context(), p); err != nil {
		if s.Log != nil {
			s.Log.Error("create product failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, p)
}

// updateReq distinguishes description absent from description "", since an
// explicit empty string replaces the stored value while name/price keep the
// old value when zero.
type updateReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateReq
	if err := validation.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	var patch Patch
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.Price != 0 {
		patch.Price = &req.Price
	}
	patch.Description = req.Description

	p, found, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
