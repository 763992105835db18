package delivery_http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"myblog/internal/custom_errors"
	"myblog/internal/model"
)

const invalidCredentials = "Invalid username or password"

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		redirect(w, r, "/index")
		return
	}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, View{Title: "Sign In", Data: FormData{Form: LoginForm{}}})
		return
	}

	var form LoginForm
	if err := bind(r, &form); err != nil {
		h.badRequest(w, r, err)
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	echo := LoginForm{Username: form.Username, RememberMe: form.RememberMe}
	if fields := validateForm(&form); fields != nil {
		h.render(w, r, http.StatusUnprocessableEntity, View{Title: "Sign In", Errors: fields, Data: FormData{Form: echo}})
		return
	}

	user, err := h.users.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, custom_errors.ErrInvalidCredentials) {
			h.render(w, r, http.StatusUnprocessableEntity, View{
				Title:   "Sign In",
				Flashes: []string{invalidCredentials},
				Data:    FormData{Form: echo},
			})
			return
		}
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Create(r.Context(), w, r, user.ID, form.RememberMe); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.log.Info("User logged in", slog.Int64("user_id", user.ID))

	target, ok := safeNext(r.URL.Query().Get("next"))
	if !ok {
		target = "/index"
	}
	redirect(w, r, target)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(r.Context(), w, r)
	redirect(w, r, "/index")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		redirect(w, r, "/index")
		return
	}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, View{Title: "Register", Data: FormData{Form: RegistrationForm{}}})
		return
	}

	var form RegistrationForm
	if err := bind(r, &form); err != nil {
		h.badRequest(w, r, err)
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	echo := RegistrationForm{Username: form.Username, Email: form.Email}
	invalid := func(fields map[string]string) {
		h.render(w, r, http.StatusUnprocessableEntity, View{Title: "Register", Errors: fields, Data: FormData{Form: echo}})
	}
	if fields := validateForm(&form); fields != nil {
		invalid(fields)
		return
	}

	_, err := h.users.Register(r.Context(), &model.RegisterUserDTO{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, custom_errors.ErrUsernameTaken):
		invalid(map[string]string{"username": "Please use a different username."})
		return
	case errors.Is(err, custom_errors.ErrEmailTaken):
		invalid(map[string]string{"email": "Please use a different email address."})
		return
	case errors.Is(err, custom_errors.ErrUserValidation):
		invalid(map[string]string{"form": "Invalid registration details."})
		return
	default:
		h.serverError(w, r, err)
		return
	}

	setFlash(w, "Congratulations, you are now a registered user!")
	redirect(w, r, "/login")
}

func (h *Handler) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		redirect(w, r, "/index")
		return
	}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, View{Title: "Reset Password", Data: FormData{Form: ResetPasswordRequestForm{}}})
		return
	}

	var form ResetPasswordRequestForm
	if err := bind(r, &form); err != nil {
		h.badRequest(w, r, err)
		return
	}
	form.Email = strings.TrimSpace(form.Email)
	if fields := validateForm(&form); fields != nil {
		h.render(w, r, http.StatusUnprocessableEntity, View{Title: "Reset Password", Errors: fields, Data: FormData{Form: form}})
		return
	}

	// The response never depends on whether the address is known.
	if err := h.passwords.RequestReset(r.Context(), form.Email); err != nil {
		h.log.Error("Password reset request failed", slog.String("error", err.Error()))
	}
	setFlash(w, "Check your email for the instructions to reset your password")
	redirect(w, r, "/login")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		redirect(w, r, "/index")
		return
	}
	token := chi.URLParam(r, "token")

	if r.Method == http.MethodGet {
		if _, err := h.passwords.CheckToken(r.Context(), token); err != nil {
			if !errors.Is(err, custom_errors.ErrInvalidToken) {
				h.log.Error("Failed to check reset token", slog.String("error", err.Error()))
			}
			redirect(w, r, "/index")
			return
		}
		h.render(w, r, http.StatusOK, View{Title: "Reset Password", Data: FormData{Form: ResetPasswordForm{}}})
		return
	}

	var form ResetPasswordForm
	if err := bind(r, &form); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if fields := validateForm(&form); fields != nil {
		h.render(w, r, http.StatusUnprocessableEntity, View{Title: "Reset Password", Errors: fields, Data: FormData{Form: ResetPasswordForm{}}})
		return
	}

	err := h.passwords.ResetPassword(r.Context(), token, form.Password)
	switch {
	case err == nil:
		setFlash(w, "Your password has been reset.")
		redirect(w, r, "/login")
	case errors.Is(err, custom_errors.ErrInvalidToken):
		redirect(w, r, "/index")
	case errors.Is(err, custom_errors.ErrUserValidation):
		h.render(w, r, http.StatusUnprocessableEntity, View{
			Title:  "Reset Password",
			Errors: map[string]string{"password": "This field is required."},
			Data:   FormData{Form: ResetPasswordForm{}},
		})
	default:
		h.serverError(w, r, err)
	}
}
