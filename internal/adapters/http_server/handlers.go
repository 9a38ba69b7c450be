package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/app"
	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
	I *app.ImportService
}

var validate = validator.New()

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/doener", h.listShops)
		r.Post("/doener", h.createShop)
		r.Put("/doener/{id}", h.updateShop)
		r.Delete("/doener/{id}", h.deleteShop)
		r.Post("/doener/{id}/rate", h.rateShop)
		r.Post("/doener/{id}/comment", h.addComment)
		r.Delete("/doener/{id}/comment/{commentId}", h.deleteComment)
		r.Post("/import/osm", h.importOSM)
	})
}

// ---- request DTOs ----
// Pointer fields separate "absent" from zero values; validate tags cover the
// required shape before anything touches the store.

type coordsReq struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

type createShopReq struct {
	Name        *string          `json:"name" validate:"required"`
	Location    *string          `json:"location"`
	Coordinates *coordsReq       `json:"coordinates" validate:"required"`
	Image       *string          `json:"image"`
	Ratings     []int            `json:"ratings"`
	Comments    []domain.Comment `json:"comments"`
}

type updateShopReq struct {
	Name        *string           `json:"name"`
	Location    *string           `json:"location"`
	Coordinates *coordsReq        `json:"coordinates"`
	Image       *string           `json:"image"`
	Ratings     *[]int            `json:"ratings"`
	Comments    *[]domain.Comment `json:"comments"`
}

type rateReq struct {
	Stars *float64 `json:"stars" validate:"required"`
}

type commentReq struct {
	User *string `json:"user" validate:"required"`
	Text *string `json:"text" validate:"required"`
}

type importReq struct {
	South *float64 `json:"south" validate:"required"`
	West  *float64 `json:"west" validate:"required"`
	North *float64 `json:"north" validate:"required"`
	East  *float64 `json:"east" validate:"required"`
}

// decodeValid decodes the body into dst and runs struct validation. A JSON
// type mismatch (e.g. a string where a number belongs) fails here too.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("malformed request body: " + err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return domain.Invalid("missing or invalid fields: " + err.Error())
	}
	return nil
}

// ---- responses ----

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps domain errors onto the problem taxonomy:
// validation → 400, unknown id → 404, upstream failure → 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed id")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "shop not found")
	case domain.IsUpstream(err):
		writeProblem(w, http.StatusInternalServerError, "OSM import failed", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// ---- handlers ----

func (h *Handlers) listShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.Q.ListShops(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

func (h *Handlers) createShop(w http.ResponseWriter, r *http.Request) {
	var req createShopReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	shop := domain.Shop{
		Name:        *req.Name,
		Coordinates: domain.Coords{Lat: *req.Coordinates.Lat, Lng: *req.Coordinates.Lng},
		Ratings:     req.Ratings,
		Comments:    req.Comments,
	}
	if req.Location != nil {
		shop.Location = *req.Location
	}
	if req.Image != nil {
		shop.Image = *req.Image
	}
	created, err := h.C.Create(r.Context(), shop)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) updateShop(w http.ResponseWriter, r *http.Request) {
	var req updateShopReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := domain.ShopPatch{
		Name:     req.Name,
		Location: req.Location,
		Image:    req.Image,
		Ratings:  req.Ratings,
		Comments: req.Comments,
	}
	if req.Coordinates != nil {
		if req.Coordinates.Lat == nil || req.Coordinates.Lng == nil {
			writeError(w, domain.Invalid("coordinates need both lat and lng"))
			return
		}
		patch.Coordinates = &domain.Coords{Lat: *req.Coordinates.Lat, Lng: *req.Coordinates.Lng}
	}
	updated, err := h.C.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteShop answers 204 whether or not the id existed; only a malformed id
// is an error.
func (h *Handlers) deleteShop(w http.ResponseWriter, r *http.Request) {
	if err := h.C.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) rateShop(w http.ResponseWriter, r *http.Request) {
	var req rateReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.C.Rate(r.Context(), chi.URLParam(r, "id"), *req.Stars)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request) {
	var req commentReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.C.CommentAdd(r.Context(), chi.URLParam(r, "id"), *req.User, *req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	updated, err := h.C.CommentDelete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) importOSM(w http.ResponseWriter, r *http.Request) {
	var req importReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.I.Run(r.Context(), domain.BoundingBox{
		South: *req.South, West: *req.West, North: *req.North, East: *req.East,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
