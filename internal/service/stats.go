package service

import (
	"math"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	"github.com/pressgate-dev/pressgate/internal/errors"
)

type StatsService interface {
	OwnerStats(realm domain.Realm, ownerId domain.AccountId) (domain.Stats, error)
	GlobalStats(realm domain.Realm) (domain.Stats, error)
}

type StatsStorage interface {
	StatusCounts(realm domain.Realm, ownerId *domain.AccountId) (domain.StatusCounts, error)
	ViewStats(realm domain.Realm, ownerId *domain.AccountId) (domain.ViewStats, error)
	MonthlyCounts(realm domain.Realm, ownerId *domain.AccountId, months int) ([]domain.MonthBucket, error)
}

type Stats struct {
	storage StatsStorage
	cfg     *config.Config
}

func NewStats(storage StatsStorage, cfg *config.Config) *Stats {
	return &Stats{storage: storage, cfg: cfg}
}

// ApprovalRate returns round(published/total*100) as an integer percentage,
// 0 when there is nothing to rate.
func ApprovalRate(counts domain.StatusCounts) int {
	if counts.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(counts.Published) / float64(counts.Total) * 100))
}

func (s *Stats) months() int {
	if s.cfg.Public.StatsMonths > 0 {
		return s.cfg.Public.StatsMonths
	}
	return 12
}

func (s *Stats) compute(realm domain.Realm, ownerId *domain.AccountId) (domain.Stats, error) {
	if _, ok := s.cfg.Realm(realm); !ok {
		return domain.Stats{}, errors.NotFound("Unknown realm")
	}

	counts, err := s.storage.StatusCounts(realm, ownerId)
	if err != nil {
		return domain.Stats{}, err
	}
	views, err := s.storage.ViewStats(realm, ownerId)
	if err != nil {
		return domain.Stats{}, err
	}
	monthly, err := s.storage.MonthlyCounts(realm, ownerId, s.months())
	if err != nil {
		return domain.Stats{}, err
	}

	return domain.Stats{
		Counts:       counts,
		ApprovalRate: ApprovalRate(counts),
		Views:        views,
		Monthly:      monthly,
	}, nil
}

// OwnerStats aggregates over one contributor's items.
func (s *Stats) OwnerStats(realm domain.Realm, ownerId domain.AccountId) (domain.Stats, error) {
	return s.compute(realm, &ownerId)
}

// GlobalStats aggregates over the whole realm.
func (s *Stats) GlobalStats(realm domain.Realm) (domain.Stats, error) {
	return s.compute(realm, nil)
}
