package pg

import (
	"fmt"

	"github.com/pressgate-dev/pressgate/internal/domain"
)

// ownerClause scopes a stats query to one owner when ownerId is set. The
// reads run against the authoritative tables, so the numbers are always
// consistent with the repository state at query time.
func ownerClause(ownerId *domain.AccountId) (string, []interface{}) {
	if ownerId == nil {
		return "", nil
	}
	return "WHERE owner_id = $1", []interface{}{*ownerId}
}

// StatusCounts returns per-status totals in a single aggregate statement.
func (s *Storage) StatusCounts(realm domain.Realm, ownerId *domain.AccountId) (domain.StatusCounts, error) {
	where, args := ownerClause(ownerId)
	var counts domain.StatusCounts
	err := s.db.QueryRow(fmt.Sprintf(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'published'),
		       COUNT(*) FILTER (WHERE status = 'rejected')
		FROM %s %s`, ContentsTableName(realm), where), args...,
	).Scan(&counts.Total, &counts.Pending, &counts.Published, &counts.Rejected)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("failed to count statuses: %w", err)
	}
	return counts, nil
}

// ViewStats aggregates view counters over the scope.
func (s *Storage) ViewStats(realm domain.Realm, ownerId *domain.AccountId) (domain.ViewStats, error) {
	where, args := ownerClause(ownerId)
	var stats domain.ViewStats
	err := s.db.QueryRow(fmt.Sprintf(`
		SELECT COALESCE(SUM(view_count), 0),
		       COALESCE(AVG(view_count), 0),
		       COALESCE(MAX(view_count), 0)
		FROM %s %s`, ContentsTableName(realm), where), args...,
	).Scan(&stats.Sum, &stats.Avg, &stats.Max)
	if err != nil {
		return domain.ViewStats{}, fmt.Errorf("failed to aggregate views: %w", err)
	}
	return stats, nil
}

// MonthlyCounts returns the most recent months buckets of submissions,
// newest first.
func (s *Storage) MonthlyCounts(realm domain.Realm, ownerId *domain.AccountId, months int) ([]domain.MonthBucket, error) {
	where, args := ownerClause(ownerId)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		FROM %s %s
		GROUP BY month
		ORDER BY month DESC
		LIMIT %d`, ContentsTableName(realm), where, months), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket submissions: %w", err)
	}
	defer rows.Close()

	var buckets []domain.MonthBucket
	for rows.Next() {
		var b domain.MonthBucket
		if err := rows.Scan(&b.Month, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan month bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
