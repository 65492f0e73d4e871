package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"tourism-platform/internal/services"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

var registerExample = map[string]interface{}{
	"username":  "new_user",
	"password":  "secret",
	"email":     "you@example.com",
	"interests": []string{"Beach"},
}

// AccountHandler serves registration, login and interest endpoints.
type AccountHandler struct {
	responder
	accounts *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *services.AccountService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: logger, metrics: metricsCollector},
		accounts:  accounts,
	}
}

// RegisterExample handles GET /register
func (h *AccountHandler) RegisterExample(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]interface{}{
		"message": "Use POST with JSON body to register a new user.",
		"example": registerExample,
	}, http.StatusOK)
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendMessage(w, r, "Missing JSON body with username, email, password", http.StatusBadRequest)
		return
	}

	if err := h.accounts.Register(r.Context(), req); err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, map[string]string{"message": "User registered successfully."}, http.StatusCreated)
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.sendMessage(w, r, "Missing JSON body with username and password", http.StatusBadRequest)
		return
	}

	username, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, map[string]string{
		"message":  "Login successful",
		"username": username,
	}, http.StatusOK)
}

// GetInterests handles GET /user/{username}/interests
func (h *AccountHandler) GetInterests(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	interests, err := h.accounts.Interests(r.Context(), username)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, map[string]interface{}{
		"username":  username,
		"interests": interests,
	}, http.StatusOK)
}

// UpdateInterests handles PUT and POST /user/{username}/interests
func (h *AccountHandler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var body struct {
		Interests []string `json:"interests"`
	}
	if err := decodeJSON(r, &body); err != nil {
		if errors.Is(err, errNoBody) {
			h.sendMessage(w, r, "Missing JSON body with interests", http.StatusBadRequest)
			return
		}
		h.sendMessage(w, r, "'interests' must be a list of strings", http.StatusBadRequest)
		return
	}

	if err := h.accounts.UpdateInterests(r.Context(), username, body.Interests); err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, map[string]interface{}{
		"message":   "User interests updated successfully.",
		"username":  username,
		"interests": body.Interests,
	}, http.StatusOK)
}

// ListUsers handles GET /users
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, users, http.StatusOK)
}

// RegisterRoutes registers all account API routes
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.RegisterExample).Methods("GET")
	router.HandleFunc("/register", h.Register).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
	router.HandleFunc("/user/{username}/interests", h.GetInterests).Methods("GET")
	router.HandleFunc("/user/{username}/interests", h.UpdateInterests).Methods("PUT", "POST")
	router.HandleFunc("/users", h.ListUsers).Methods("GET")
}
