package store

import (
	"context"
	"fmt"

	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

// InsertDepartures appends departures to the history. Rows whose
// natural key (station, transport type, label, destination, planned
// time) is already stored are skipped individually; the rest of the
// batch is unaffected. Returns (inserted, skipped).
func (s *Store) InsertDepartures(ctx context.Context, departures []model.Departure) (int, int, error) {
	if len(departures) == 0 {
		return 0, 0, nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO departures_raw (
			station_id, transport_type, label, destination,
			planned_departure_time, realtime_departure_time,
			delay_in_minutes, cancelled, platform, realtime, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (station_id, transport_type, label, destination, planned_departure_time)
		DO NOTHING
	`))
	if err != nil {
		return 0, 0, fmt.Errorf("prepare departure insert: %w", err)
	}
	defer stmt.Close()

	inserted, skipped := 0, 0
	for _, d := range departures {
		res, err := stmt.ExecContext(ctx,
			d.StationID, d.TransportType, d.Label, d.Destination,
			d.PlannedDepartureTime, d.RealtimeDepartureTime,
			d.DelayInMinutes, d.Cancelled, nullString(d.Platform),
			d.Realtime, d.FetchedAt,
		)
		if err != nil {
			return inserted, skipped, fmt.Errorf("insert departure for %s: %w", d.StationID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, skipped, err
		}
		if affected == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, skipped, fmt.Errorf("commit departures: %w", err)
	}
	return inserted, skipped, nil
}
