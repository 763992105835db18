package delivery_http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"myblog/internal/custom_errors"
	"myblog/internal/model"
)

func profilePath(username string) string {
	return "/user/" + url.PathEscape(username)
}

// usernameParam returns the decoded {username} segment. chi routes on the
// escaped path when one is present, so names containing "/" arrive escaped.
func usernameParam(r *http.Request) string {
	name := chi.URLParam(r, "username")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// lookupUser loads the {username} route user, answering 404 itself.
func (h *Handler) lookupUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, err := h.users.GetUserByUsername(r.Context(), usernameParam(r))
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			h.notFound(w, r)
		} else {
			h.serverError(w, r, err)
		}
		return nil, false
	}
	return user, true
}

func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}
	me := currentUser(r)
	ctx := r.Context()

	posts, err := h.posts.UserPosts(ctx, user.Username, pageParam(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	stats, err := h.users.FollowStats(ctx, user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := ProfileData{
		User:      newUserView(user, profileAvatarSize),
		IsSelf:    me.ID == user.ID,
		Followers: stats.Followers,
		Following: stats.Followed,
		Posts:     newPageView(posts, profilePath(user.Username)),
	}
	if !data.IsSelf {
		if data.IsFollowing, err = h.users.IsFollowing(ctx, me.ID, user.ID); err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	h.render(w, r, http.StatusOK, View{Title: user.Username, Data: data})
}

func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	if r.Method == http.MethodGet {
		form := EditProfileForm{Username: me.Username}
		if me.AboutMe != nil {
			form.AboutMe = *me.AboutMe
		}
		h.render(w, r, http.StatusOK, View{Title: "Edit Profile", Data: FormData{Form: form}})
		return
	}

	var form EditProfileForm
	if err := bind(r, &form); err != nil {
		h.badRequest(w, r, err)
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.AboutMe = strings.TrimSpace(form.AboutMe)
	invalid := func(fields map[string]string) {
		h.render(w, r, http.StatusUnprocessableEntity, View{Title: "Edit Profile", Errors: fields, Data: FormData{Form: form}})
	}
	if fields := validateForm(&form); fields != nil {
		invalid(fields)
		return
	}

	aboutMe := form.AboutMe
	_, err := h.users.UpdateProfile(r.Context(), me.ID, &model.UpdateProfileDTO{Username: form.Username, AboutMe: &aboutMe})
	switch {
	case err == nil:
		setFlash(w, "Your changes have been saved.")
		redirect(w, r, "/edit_profile")
	case errors.Is(err, custom_errors.ErrUsernameTaken):
		invalid(map[string]string{"username": "Please use a different username."})
	case errors.Is(err, custom_errors.ErrUserValidation):
		invalid(map[string]string{"form": "Invalid profile details."})
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	h.followList(w, r, "Followers of %s", h.users.Followers)
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	h.followList(w, r, "Followed by %s", h.users.Followed)
}

func (h *Handler) followList(w http.ResponseWriter, r *http.Request, title string, list func(ctx context.Context, userID int64) ([]*model.User, error)) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}
	users, err := list(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, View{
		Title: fmt.Sprintf(title, user.Username),
		Data:  FollowListData{User: newUserView(user, profileAvatarSize), Users: newUserViews(users)},
	})
}

type followMessages struct {
	self string
	done string
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.users.Follow, followMessages{
		self: "You cannot follow yourself!",
		done: "You are following %s!",
	})
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.users.Unfollow, followMessages{
		self: "You cannot unfollow yourself!",
		done: "You are not following %s.",
	})
}

func (h *Handler) changeFollow(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, followerID int64, username string) (*model.User, error),
	messages followMessages,
) {
	username := usernameParam(r)
	_, err := change(r.Context(), currentUser(r).ID, username)
	switch {
	case err == nil:
		setFlash(w, fmt.Sprintf(messages.done, username))
		redirect(w, r, profilePath(username))
	case errors.Is(err, custom_errors.ErrUserNotFound):
		setFlash(w, fmt.Sprintf("User %s not found.", username))
		redirect(w, r, "/index")
	case errors.Is(err, custom_errors.ErrCannotFollowSelf):
		setFlash(w, messages.self)
		redirect(w, r, profilePath(username))
	default:
		h.serverError(w, r, err)
	}
}
