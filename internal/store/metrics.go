package store

import (
	"context"
	"database/sql"
	"fmt"
)

// LineMetric aggregates stored departures per day, transport type,
// label and destination.
type LineMetric struct {
	Date             string  `json:"date"`
	TransportType    string  `json:"transport_type"`
	Label            string  `json:"label"`
	Destination      string  `json:"destination"`
	CountTotal       int     `json:"count_total"`
	CountCancelled   int     `json:"count_cancelled"`
	CancellationRate float64 `json:"cancellation_rate"`
	AvgDelay         float64 `json:"avg_delay"`
}

// StationMetric aggregates stored departures per day and station.
type StationMetric struct {
	Date             string  `json:"date"`
	StationID        string  `json:"station_id"`
	CountTotal       int     `json:"count_total"`
	CountCancelled   int     `json:"count_cancelled"`
	CancellationRate float64 `json:"cancellation_rate"`
	AvgDelay         float64 `json:"avg_delay"`
}

// LineMetrics computes reliability metrics grouped by UTC calendar day
// of observation, transport type, label and destination.
func (s *Store) LineMetrics(ctx context.Context) ([]LineMetric, error) {
	day := s.dateExpr("fetched_at")
	query := fmt.Sprintf(`
		SELECT %s AS day, transport_type, label, destination,
			COUNT(*) AS count_total,
			SUM(CASE WHEN cancelled THEN 1 ELSE 0 END) AS count_cancelled,
			AVG(delay_in_minutes) AS avg_delay
		FROM departures_raw
		GROUP BY day, transport_type, label, destination
		ORDER BY day
	`, day)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query line metrics: %w", err)
	}
	defer rows.Close()

	var out []LineMetric
	for rows.Next() {
		var m LineMetric
		var transportType, label, destination sql.NullString
		var avgDelay sql.NullFloat64
		if err := rows.Scan(&m.Date, &transportType, &label, &destination,
			&m.CountTotal, &m.CountCancelled, &avgDelay); err != nil {
			return nil, err
		}
		m.TransportType = transportType.String
		m.Label = label.String
		m.Destination = destination.String
		m.AvgDelay = avgDelay.Float64
		if m.CountTotal > 0 {
			m.CancellationRate = float64(m.CountCancelled) / float64(m.CountTotal)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// StationMetrics computes reliability metrics grouped by UTC calendar
// day of observation and station.
func (s *Store) StationMetrics(ctx context.Context) ([]StationMetric, error) {
	day := s.dateExpr("fetched_at")
	query := fmt.Sprintf(`
		SELECT %s AS day, station_id,
			COUNT(*) AS count_total,
			SUM(CASE WHEN cancelled THEN 1 ELSE 0 END) AS count_cancelled,
			AVG(delay_in_minutes) AS avg_delay
		FROM departures_raw
		GROUP BY day, station_id
		ORDER BY day
	`, day)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query station metrics: %w", err)
	}
	defer rows.Close()

	var out []StationMetric
	for rows.Next() {
		var m StationMetric
		var avgDelay sql.NullFloat64
		if err := rows.Scan(&m.Date, &m.StationID, &m.CountTotal, &m.CountCancelled, &avgDelay); err != nil {
			return nil, err
		}
		m.AvgDelay = avgDelay.Float64
		if m.CountTotal > 0 {
			m.CancellationRate = float64(m.CountCancelled) / float64(m.CountTotal)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
