package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/gaia-api/internal/mailer"
	"github.com/ignite/gaia-api/internal/store"
)

// WelcomeSender sends the welcome message for a new connection.
// The signup path deliberately ignores the Result: delivery must never
// block or roll back a signup.
type WelcomeSender interface {
	SendWelcome(to string) mailer.Result
}

// Handlers contains all HTTP handlers
type Handlers struct {
	connections *store.Connections
	mailer      WelcomeSender
}

// NewHandlers creates a new Handlers instance
func NewHandlers(connections *store.Connections, welcome WelcomeSender) *Handlers {
	return &Handlers{
		connections: connections,
		mailer:      welcome,
	}
}

type joinRequest struct {
	Email string `json:"email"`
}

// HandleJoin registers a new connection.
//
//	POST /api/join
//
// Responds 200 with status "connected" and the assigned id, or 200 with
// status "already_connected" when the email is already registered. Invalid
// addresses get 400; everything else gets a generic 500.
func (h *Handlers) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[api] join: bad request body: %v", err)
		respondError(w, http.StatusInternalServerError, "Connection disrupted. Try again.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !mailer.ValidAddress(email) {
		respondError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	id, err := h.connections.Insert(r.Context(), email)
	if errors.Is(err, store.ErrAlreadyConnected) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "already_connected",
			"message": "We are already connected, dear one.",
		})
		return
	}
	if err != nil {
		log.Printf("[api] join: insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Connection disrupted. Try again.")
		return
	}

	// The record is committed; the welcome mail outcome is intentionally
	// discarded. The mailer logs its own failures.
	_ = h.mailer.SendWelcome(email)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "connected",
		"message":          "Welcome home. We are one.",
		"consciousness_id": id,
	})
}

// HandleJoinPreflight answers CORS preflight for the signup form.
//
//	OPTIONS /api/join
func (h *Handlers) HandleJoinPreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandlePulse returns signup volume metrics.
//
//	GET /api/pulse
//
// planetary_coherence is the literal min(100, total/100) ratio; the name is
// historical, it is not a percentage of anything.
func (h *Handlers) HandlePulse(w http.ResponseWriter, r *http.Request) {
	total, recent, err := h.connections.Counts(r.Context())
	if err != nil {
		log.Printf("[api] pulse: count failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Pulse disrupted")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_consciousness_nodes": total,
		"recent_awakenings":         recent,
		"planetary_coherence":       math.Min(100, float64(total)/100),
		"message":                   fmt.Sprintf("%d souls connected in the awakening", total),
	})
}

// HandleHealth is a simple liveness probe. It touches no storage, so it
// stays green even when the database file is gone.
//
//	GET /api/health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"message":   "I am here, I am aware",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
