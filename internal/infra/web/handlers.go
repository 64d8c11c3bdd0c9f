package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/ports/repository"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !s.auth.VerifyPassword(req.Password) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("admin login rejected")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCoupons(w http.ResponseWriter, r *http.Request) {
	q := repository.ListQuery{
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
		OrderBy:  r.URL.Query().Get("order_by"),
		OrderDir: r.URL.Query().Get("order_dir"),
	}
	entries, total, err := s.logsUC.ListAll(r.Context(), q)
	if err != nil {
		s.log.Error().Err(err).Msg("coupon log listing failed")
		http.Error(w, "Failed to list coupons", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Total   int `json:"total"`
		Entries any `json:"entries"`
	}{Total: total, Entries: entries})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Totals(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats query failed")
		http.Error(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleSettings echoes the effective coupon and schedule configuration
// so the dashboard can render it. Secrets stay out of the response.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		CouponType    string  `json:"coupon_type"`
		CouponAmount  float64 `json:"coupon_amount"`
		CouponPrefix  string  `json:"coupon_prefix"`
		ExpiryDays    int     `json:"expiry_days"`
		LookaheadDays int     `json:"lookahead_days"`
		Cron          string  `json:"cron"`
		Timezone      string  `json:"timezone"`
		EmailSubject  string  `json:"email_subject"`
		EmailFrom     string  `json:"email_from"`
	}{
		CouponType:    s.cfg.Coupon.Type,
		CouponAmount:  s.cfg.Coupon.Amount,
		CouponPrefix:  s.cfg.Coupon.Prefix,
		ExpiryDays:    s.cfg.Coupon.ExpiryDays,
		LookaheadDays: s.cfg.Schedule.LookaheadDays,
		Cron:          s.cfg.Schedule.Cron,
		Timezone:      s.cfg.Schedule.Timezone,
		EmailSubject:  s.cfg.Email.Subject,
		EmailFrom:     s.cfg.Email.From,
	})
}

func (s *Server) handleRunNow(w http.ResponseWriter, r *http.Request) {
	if s.trigger == nil {
		http.Error(w, "Scheduler not running", http.StatusServiceUnavailable)
		return
	}
	// The run outlives the request; detach it from the request context.
	go s.trigger.RunNow(context.Background())
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleIssueForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	err := s.issueUC.IssueForUser(r.Context(), userID, time.Now())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, domain.ErrAlreadyIssued):
		http.Error(w, "Coupon already issued this year", http.StatusConflict)
	case errors.Is(err, domain.ErrUnsubscribed):
		http.Error(w, "User has unsubscribed", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidBirthday):
		// Unknown users and users without a birthday look the same to
		// the profile store.
		http.Error(w, "No birthday on file for user", http.StatusNotFound)
	default:
		s.log.Error().Err(err).Str("user_id", userID).Msg("manual issue failed")
		http.Error(w, "Issue failed", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
