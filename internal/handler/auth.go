package handler

import (
	"net/http"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/starfederation/datastar-go/datastar"
)

// AuthHandler handles account HTTP requests. Sessions belong to the
// request's profile, so no auth cookie is set here.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and signs the profile in. The sign-in
// form on the home page posts here through datastar.
// POST /api/auth/register
// Request:  {"email":"...","password":"..."}
// Response: 201 {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := h.accounts.Register(r.Context(), ProfileFromContext(r.Context()), req.Email, req.Password)
	if isDatastar(r) {
		patchSignedIn(w, r, "register account", session, err)
		return
	}
	if err != nil {
		writeServiceError(w, "register account", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": toUserDTO(session)})
}

// HandleLogin signs the profile in.
// POST /api/auth/login
// Response: 200 {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := h.accounts.Login(r.Context(), ProfileFromContext(r.Context()), req.Email, req.Password)
	if isDatastar(r) {
		patchSignedIn(w, r, "login", session, err)
		return
	}
	if err != nil {
		writeServiceError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(session)})
}

// HandleLogout signs the profile out. Datastar callers are sent home.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.Logout(r.Context(), ProfileFromContext(r.Context()))
	if isDatastar(r) {
		sse := datastar.NewSSE(w, r)
		if err != nil {
			patchFlash(sse, "logout", err)
			return
		}
		redirect(sse, "/")
		return
	}
	if err != nil {
		writeServiceError(w, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the signed-in user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not signed in.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(session)})
}

// patchSignedIn answers the sign-in form. On success the user signal flips
// the page's account controls; otherwise the error shows in the flash slot.
func patchSignedIn(w http.ResponseWriter, r *http.Request, op string, session *domain.Session, err error) {
	sse := datastar.NewSSE(w, r)
	if err != nil {
		patchFlash(sse, op, err)
		return
	}
	patchSignals(sse, map[string]any{"user": session.Email, "password": "", "flash": ""})
}
