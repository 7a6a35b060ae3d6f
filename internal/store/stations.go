package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

// UpsertStations writes stations into the store, updating existing
// rows in place. Returns the number of stations processed.
func (s *Store) UpsertStations(ctx context.Context, stations []model.Station) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO stations (
			station_id, name, place, latitude, longitude,
			diva_id, tariff_zones, products, last_seen_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (station_id) DO UPDATE SET
			name = excluded.name,
			place = excluded.place,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			diva_id = excluded.diva_id,
			tariff_zones = excluded.tariff_zones,
			products = excluded.products,
			last_seen_at = excluded.last_seen_at
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare station upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Unix()
	count := 0
	for _, st := range stations {
		var products *string
		if st.Products != nil {
			data, err := json.Marshal(st.Products)
			if err != nil {
				return count, fmt.Errorf("encode products for %s: %w", st.ID, err)
			}
			p := string(data)
			products = &p
		}
		_, err := stmt.ExecContext(ctx,
			st.ID, st.Name, nullString(st.Place), st.Latitude, st.Longitude,
			st.DivaID, nullString(st.TariffZones), products, now,
		)
		if err != nil {
			return count, fmt.Errorf("upsert station %s: %w", st.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit station upsert: %w", err)
	}
	return count, nil
}

// CountStations returns the number of stored stations.
func (s *Store) CountStations(ctx context.Context) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM stations").Scan(&n)
	return n, err
}

func nullString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
