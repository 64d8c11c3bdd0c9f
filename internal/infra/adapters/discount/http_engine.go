package discount

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/adapter"
)

var _ adapter.DiscountEngine = (*HTTPEngine)(nil)

// HTTPEngine talks to the discount engine's REST API. The engine owns
// coupon objects; this core only creates birthday coupons and reads
// them back.
type HTTPEngine struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPEngine(baseURL, apiKey string) (*HTTPEngine, error) {
	if baseURL == "" {
		return nil, errors.New("discount engine base url empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid engine url: %w", err)
	}
	return &HTTPEngine{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type couponPayload struct {
	Code              string            `json:"code"`
	Description       string            `json:"description"`
	DiscountType      string            `json:"discount_type"`
	Amount            float64           `json:"amount"`
	UsageLimit        int               `json:"usage_limit"`
	UsageLimitPerUser int               `json:"usage_limit_per_user"`
	IndividualUse     bool              `json:"individual_use"`
	FreeShipping      bool              `json:"free_shipping"`
	DateExpires       time.Time         `json:"date_expires"`
	EmailRestrictions []string          `json:"email_restrictions"`
	MetaData          map[string]string `json:"meta_data,omitempty"`
}

func (e *HTTPEngine) CreateCoupon(ctx context.Context, spec model.CouponSpec) (string, error) {
	payload := couponPayload{
		Code:              spec.Code,
		Description:       spec.Description,
		DiscountType:      string(spec.DiscountType),
		Amount:            spec.Amount,
		UsageLimit:        spec.UsageLimit,
		UsageLimitPerUser: spec.UsageLimitPerUser,
		IndividualUse:     spec.IndividualUse,
		FreeShipping:      spec.FreeShipping,
		DateExpires:       spec.ExpiresAt,
		EmailRestrictions: spec.EmailRestriction,
		MetaData:          spec.Metadata,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/coupons", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	e.decorate(req)
	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return "", domain.ErrDuplicateCode
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("engine refused coupon creation: status %d", resp.StatusCode)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("engine returned empty coupon id")
	}
	return out.ID, nil
}

func (e *HTTPEngine) LookupByCode(ctx context.Context, code string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/coupons/lookup?code="+url.QueryEscape(code), nil)
	if err != nil {
		return "", err
	}
	e.decorate(req)
	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("engine lookup failed: status %d", resp.StatusCode)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (e *HTTPEngine) GetCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/coupons/"+url.PathEscape(couponID), nil)
	if err != nil {
		return nil, err
	}
	e.decorate(req)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine get coupon failed: status %d", resp.StatusCode)
	}
	var out struct {
		ID           string    `json:"id"`
		Code         string    `json:"code"`
		DiscountType string    `json:"discount_type"`
		Amount       float64   `json:"amount"`
		DateExpires  time.Time `json:"date_expires"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &model.Coupon{
		ID:           out.ID,
		Code:         out.Code,
		DiscountType: model.DiscountType(out.DiscountType),
		Amount:       out.Amount,
		ExpiresAt:    out.DateExpires,
	}, nil
}

func (e *HTTPEngine) decorate(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
}
