package objecthandler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasknest/vault-backend/api"
	"github.com/tasknest/vault-backend/auth"
	"github.com/tasknest/vault-backend/interfaces"
	"github.com/tasknest/vault-backend/metrics"
)

// Handler processes encrypted object HTTP requests. All routes require an
// authenticated user; the owner always comes from the verified access token,
// never from the request.
type Handler struct {
	store interfaces.ObjectStore
	log   *slog.Logger
}

// NewHandler creates an object handler backed by the given store.
func NewHandler(store interfaces.ObjectStore, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// RegisterRoutes mounts the object endpoints. The caller wraps the router
// with auth.Middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/objects/{object_type}", h.HandleList)
	r.Post("/api/objects/{object_type}", h.HandleCreate)
	r.Put("/api/objects/{object_type}/{id}", h.HandleUpdate)
	r.Delete("/api/objects/{object_type}/{id}", h.HandleDelete)
}

// HandleList returns the caller's objects of one type in creation order.
//
// URL format: GET /api/objects/{object_type}
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, objectType, err := requestScope(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	objects, err := h.store.List(r.Context(), owner, objectType)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	resp := make([]api.ObjectResponse, 0, len(objects))
	for i := range objects {
		resp = append(resp, objectResponse(&objects[i]))
	}
	if err := api.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("Failed to encode object list", "err", err)
	}
}

// HandleCreate stores a new encrypted object for the caller.
//
// URL format: POST /api/objects/{object_type}
// Request body: JSON with a base64 ciphertext field.
//
// Response: 201 with the stored object including its assigned id.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, objectType, err := requestScope(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	ciphertext, err := decodeCiphertext(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	obj := &interfaces.EncryptedObject{
		OwnerID:    owner,
		ObjectType: objectType,
		Ciphertext: ciphertext,
	}
	if err := h.store.Create(r.Context(), obj); err != nil {
		api.WriteError(w, err)
		return
	}
	metrics.ObjectOpsTotal.WithLabelValues("create").Inc()

	if err := api.WriteJSON(w, http.StatusCreated, objectResponse(obj)); err != nil {
		h.log.Error("Failed to encode created object", "err", err)
	}
}

// HandleUpdate replaces an object's ciphertext wholesale. Last writer wins;
// there is no version check.
//
// URL format: PUT /api/objects/{object_type}/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, objectType, err := requestScope(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	id, err := objectID(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	ciphertext, err := decodeCiphertext(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	obj, err := h.store.Update(r.Context(), owner, objectType, id, ciphertext)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	metrics.ObjectOpsTotal.WithLabelValues("update").Inc()

	if err := api.WriteJSON(w, http.StatusOK, objectResponse(obj)); err != nil {
		h.log.Error("Failed to encode updated object", "err", err)
	}
}

// HandleDelete removes an object immediately. There is no soft delete.
//
// URL format: DELETE /api/objects/{object_type}/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, objectType, err := requestScope(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	id, err := objectID(r)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	if err := h.store.Delete(r.Context(), owner, objectType, id); err != nil {
		api.WriteError(w, err)
		return
	}
	metrics.ObjectOpsTotal.WithLabelValues("delete").Inc()

	if err := api.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "deleted"}); err != nil {
		h.log.Error("Failed to encode delete response", "err", err)
	}
}

func requestScope(r *http.Request) (interfaces.UserID, interfaces.ObjectType, error) {
	owner, ok := auth.FromContext(r.Context())
	if !ok {
		return 0, "", interfaces.ErrInvalidCredentials
	}

	objectType := interfaces.ObjectType(chi.URLParam(r, "object_type"))
	if err := objectType.Validate(); err != nil {
		return 0, "", err
	}
	return owner, objectType, nil
}

func objectID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid object id", interfaces.ErrInvalidParameter)
	}
	return id, nil
}

func decodeCiphertext(r *http.Request) ([]byte, error) {
	var req api.ObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrInvalidParameter, err)
	}
	if req.Ciphertext == "" {
		return nil, fmt.Errorf("%w: ciphertext is required", interfaces.ErrInvalidParameter)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(req.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext must be base64", interfaces.ErrInvalidParameter)
	}
	return ciphertext, nil
}

func objectResponse(obj *interfaces.EncryptedObject) api.ObjectResponse {
	return api.ObjectResponse{
		ID:         obj.ID,
		Ciphertext: base64.StdEncoding.EncodeToString(obj.Ciphertext),
		CreatedAt:  obj.CreatedAt,
		UpdatedAt:  obj.UpdatedAt,
	}
}
