package handlers

import (
	"net/http"

	"todoTracker/internal/form"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var request dto.SignUpRequest
	if bErr := decodeJSON(w, r, &request); bErr != nil {
		handleError(w, r, bErr, "sign_up")
		return
	}

	identity, err := h.auth.SignUp(r.Context(), form.SignUpFields{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		handleError(w, r, err, "sign_up")
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован", zap.String("user_id", identity.UserID.String()))
	responseWithBody(w, http.StatusCreated, dto.FromIdentity(identity))
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var request dto.SignInRequest
	if bErr := decodeJSON(w, r, &request); bErr != nil {
		handleError(w, r, bErr, "sign_in")
		return
	}

	identity, err := h.auth.SignIn(r.Context(), form.SignInFields{
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		handleError(w, r, err, "sign_in")
		return
	}

	logger.Info("HTTP_OUT: Вход выполнен", zap.String("user_id", identity.UserID.String()))
	responseWithBody(w, http.StatusOK, dto.FromIdentity(identity))
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		handleError(w, r, NewBusinessError("UNAUTHORIZED", "Нет токена для выхода"), "sign_out")
		return
	}

	if err := h.auth.SignOut(r.Context(), token); err != nil {
		handleError(w, r, err, "sign_out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
