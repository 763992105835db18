package delivery_http

import (
	"errors"
	"net/http"
	"strings"

	"myblog/internal/custom_errors"
	"myblog/internal/model"
)

// Index shows the home feed and accepts new posts.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	status := http.StatusOK
	var fields map[string]string
	var form PostForm

	if r.Method == http.MethodPost {
		if err := bind(r, &form); err != nil {
			h.badRequest(w, r, err)
			return
		}
		form.Post = strings.TrimSpace(form.Post)
		fields = validateForm(&form)
		if fields == nil {
			_, err := h.posts.CreatePost(r.Context(), &model.CreatePostDTO{AuthorID: user.ID, Body: form.Post})
			switch {
			case err == nil:
				setFlash(w, "Your post is now live!")
				redirect(w, r, "/index")
				return
			case errors.Is(err, custom_errors.ErrPostValidation):
				fields = map[string]string{"post": "Post must be between 1 and 140 characters."}
			default:
				h.serverError(w, r, err)
				return
			}
		}
		status = http.StatusUnprocessableEntity
	}

	feed, err := h.posts.HomeFeed(r.Context(), user, pageParam(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, status, View{
		Title:  "Home",
		Errors: fields,
		Data:   FeedData{Form: form, Posts: newPageView(feed, "/index")},
	})
}

func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	feed, err := h.posts.Explore(r.Context(), pageParam(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, View{
		Title: "Explore",
		Data:  FeedData{Posts: newPageView(feed, "/explore")},
	})
}
