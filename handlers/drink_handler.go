package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/coffee-shop/backend/auth"
	"github.com/upb/coffee-shop/backend/middleware"
	"github.com/upb/coffee-shop/backend/models"
	"github.com/upb/coffee-shop/backend/utils"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// DrinkService is the drink menu behaviour the handlers depend on
type DrinkService interface {
	List(ctx context.Context) ([]*models.Drink, error)
	Create(ctx context.Context, req models.CreateDrinkRequest) (*models.Drink, error)
	Update(ctx context.Context, id int64, req models.UpdateDrinkRequest) (*models.Drink, error)
	Delete(ctx context.Context, id int64) error
}

// DrinkHandler handles drink-related HTTP requests
type DrinkHandler struct {
	service DrinkService
	logger  *zap.Logger
}

// NewDrinkHandler creates a new DrinkHandler
func NewDrinkHandler(service DrinkService, logger *zap.Logger) *DrinkHandler {
	return &DrinkHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /drinks
// Public, returns the short representation
func (h *DrinkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeSuccess(w, map[string]interface{}{"drinks": models.ShortDrinks(drinks)})
}

// HandleListDetail handles GET /drinks-detail
func (h *DrinkHandler) HandleListDetail(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
	drinks, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeSuccess(w, map[string]interface{}{"drinks": models.LongDrinks(drinks)})
}

// HandleCreate handles POST /drinks
func (h *DrinkHandler) HandleCreate(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req models.CreateDrinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	drink, err := h.service.Create(r.Context(), req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("drink created via api",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("sub", claims.Subject()),
		zap.Int64("drink_id", drink.ID))

	h.writeSuccess(w, map[string]interface{}{"drinks": []models.LongDrink{drink.Long()}})
}

// HandleUpdate handles PATCH /drinks/{id}
func (h *DrinkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
	id, ok := h.drinkID(w, r)
	if !ok {
		return
	}

	var req models.UpdateDrinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	drink, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeSuccess(w, map[string]interface{}{"drinks": []models.LongDrink{drink.Long()}})
}

// HandleDelete handles DELETE /drinks/{id}
func (h *DrinkHandler) HandleDelete(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
	id, ok := h.drinkID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeSuccess(w, map[string]interface{}{"delete": id})
}

// drinkID parses the {id} URL parameter; anything that is not a positive
// integer names no drink
func (h *DrinkHandler) drinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		if err := utils.WriteNotFound(w); err != nil {
			h.logger.Error("failed to write not found response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into dst. Malformed JSON is a 400; well-formed
// JSON of the wrong shape is a 422.
func (h *DrinkHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}

	var syntaxErr *json.SyntaxError
	var writeErr error
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		writeErr = utils.WriteBadRequest(w)
	} else {
		writeErr = utils.WriteUnprocessable(w)
	}

	h.logger.Debug("invalid request body",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.Error(err))
	if writeErr != nil {
		h.logger.Error("failed to write error response", zap.Error(writeErr))
	}
	return false
}

func (h *DrinkHandler) writeSuccess(w http.ResponseWriter, fields map[string]interface{}) {
	if err := utils.WriteSuccess(w, fields); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
