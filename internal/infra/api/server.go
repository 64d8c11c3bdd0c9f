package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/usecase"
)

// requestTimeout bounds the synchronous work done inside a webhook or
// account request.
const requestTimeout = 10 * time.Second

// Server is the public surface: the order-finalized webhook from the
// shop's order pipeline plus the account endpoints the storefront uses
// for the birthday field and the active-coupon banner.
type Server struct {
	redemptionUC usecase.RedemptionUseCase
	profileUC    usecase.ProfileUseCase
	logsUC       usecase.CouponLogUseCase
	log          *zerolog.Logger
}

func NewServer(
	redemptionUC usecase.RedemptionUseCase,
	profileUC usecase.ProfileUseCase,
	logsUC usecase.CouponLogUseCase,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "PublicAPI").Logger()
	return &Server{
		redemptionUC: redemptionUC,
		profileUC:    profileUC,
		logsUC:       logsUC,
		log:          &compLog,
	}
}

// Register attaches handlers to the provided mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/orders/finalized", s.handleOrderFinalized)
	usersRouter := s.usersRouter()
	mux.Handle("/api/v1/users/", usersRouter)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

type orderFinalizedRequest struct {
	OrderID      string   `json:"order_id"`
	AppliedCodes []string `json:"applied_codes"`
}

// handleOrderFinalized correlates applied coupon codes with the audit
// log. The order pipeline must never stall on us, so the response is
// 202 regardless of per-code outcomes.
func (s *Server) handleOrderFinalized(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req orderFinalizedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	n, err := s.redemptionUC.HandleOrderFinalized(ctx, req.OrderID, req.AppliedCodes)
	if err != nil {
		// Invalid input aside, correlation problems are logged per
		// code inside the use case and never fail the order.
		s.log.Warn().Err(err).Str("order_id", req.OrderID).Msg("order webhook rejected")
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]int{"redeemed": n})
}

// usersRouter dispatches /api/v1/users/{id}/... without pulling the
// admin router's dependencies into the public listener.
func (s *Server) usersRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
		parts := strings.SplitN(strings.TrimSuffix(rest, "/"), "/", 2)
		if len(parts) != 2 || parts[0] == "" {
			http.NotFound(w, r)
			return
		}
		userID, action := parts[0], parts[1]

		switch {
		case action == "coupons" && r.Method == http.MethodGet:
			s.handleUserCoupons(w, r, userID)
		case action == "birthday" && r.Method == http.MethodPut:
			s.handleSetBirthday(w, r, userID)
		case action == "subscription" && r.Method == http.MethodPut:
			s.handleSetSubscription(w, r, userID)
		default:
			http.NotFound(w, r)
		}
	})
}

func (s *Server) handleUserCoupons(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coupons, err := s.logsUC.ListForUser(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("user coupon listing failed")
		http.Error(w, "Failed to list coupons", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"coupons": coupons})
}

type birthdayRequest struct {
	Day   int `json:"day"`
	Month int `json:"month"`
}

func (s *Server) handleSetBirthday(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req birthdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	err := s.profileUC.SetBirthday(ctx, userID, req.Day, req.Month)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrInvalidBirthday):
		http.Error(w, "Not a valid calendar date", http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Unknown user", http.StatusNotFound)
	default:
		s.log.Error().Err(err).Str("user_id", userID).Msg("birthday update failed")
		http.Error(w, "Update failed", http.StatusInternalServerError)
	}
}

type subscriptionRequest struct {
	Unsubscribed bool `json:"unsubscribed"`
}

func (s *Server) handleSetSubscription(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.profileUC.SetUnsubscribed(ctx, userID, req.Unsubscribed); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("subscription update failed")
		http.Error(w, "Update failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
