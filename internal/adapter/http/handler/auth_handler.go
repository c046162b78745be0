package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZeyadW/Apartment-Finder/internal/adapter/http/middleware"
	userusecase "github.com/ZeyadW/Apartment-Finder/internal/user/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users  *userusecase.UserUsecase
	logger *zap.Logger
}

func NewAuthHandler(users *userusecase.UserUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger.Named("AuthHandler")}
}

type authPayload struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input userusecase.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.users.Register(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, authPayload{User: user, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, authPayload{User: user, Token: token})
}

// HandleMe returns the authenticated account.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	user, err := h.users.GetByID(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	users, err := h.users.ListUsers(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, users, len(users))
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *AuthHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := middleware.PrincipalFromContext(r.Context())
	user, err := h.users.UpdateRole(r.Context(), p, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *AuthHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	user, err := h.users.ToggleStatus(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
