package delivery_http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// render writes a page view, adding the signed in user and pending flashes.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view View) {
	view.CurrentUser = newUserView(currentUser(r), postAvatarSize)
	view.Flashes = append(popFlashes(w, r), view.Flashes...)
	writeJSON(w, status, view)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found"})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Debug("Malformed request body",
		slog.String("request_id", chi_middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad Request"})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("Request failed",
		slog.String("request_id", chi_middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An unexpected error has occurred"})
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
