package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Stats is the admin dashboard summary.
type Stats struct {
	IssuedTotal    int `json:"issued_total"`
	RedeemedTotal  int `json:"redeemed_total"`
	IssuedThisYear int `json:"issued_this_year"`
}

type StatsUseCase interface {
	Totals(ctx context.Context) (Stats, error)
}

type statsUC struct {
	logs repository.CouponLogRepository
	loc  *time.Location
	log  *zerolog.Logger
}

func NewStatsUseCase(logs repository.CouponLogRepository, loc *time.Location, logger *zerolog.Logger) *statsUC {
	if loc == nil {
		loc = time.UTC
	}
	return &statsUC{logs: logs, loc: loc, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (Stats, error) {
	issued, err := s.logs.Count(ctx, repository.NoTX)
	if err != nil {
		return Stats{}, err
	}
	redeemed, err := s.logs.CountRedeemed(ctx, repository.NoTX)
	if err != nil {
		return Stats{}, err
	}
	yearStart := time.Date(time.Now().In(s.loc).Year(), time.January, 1, 0, 0, 0, 0, s.loc)
	thisYear, err := s.logs.CountIssuedSince(ctx, repository.NoTX, yearStart)
	if err != nil {
		return Stats{}, err
	}
	return Stats{IssuedTotal: issued, RedeemedTotal: redeemed, IssuedThisYear: thisYear}, nil
}
