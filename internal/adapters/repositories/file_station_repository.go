package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStationRepository keeps stations in a single JSON file.
//
// Reads and read-modify-write cycles are serialised by a mutex, and every write
// replaces the file through a temp file and rename, so readers never observe a
// partial document. The mutex only covers this process; one process must own
// the file.
type FileStationRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileStationRepository(path string) *FileStationRepository {
	return &FileStationRepository{path: path}
}

// Return all stations in file order. A missing file is an empty collection.
func (f *FileStationRepository) ListStations(ctx context.Context) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.file.List")(&err)

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.load()
}

func (f *FileStationRepository) AddReservation(
	ctx context.Context,
	stationID string,
	r domain.ReservationInterval,
) (_ domain.Station, err error) {
	defer obs.Time(ctx, "stations.file.AddReservation")(&err)

	f.mu.Lock()
	defer f.mu.Unlock()

	stations, err := f.load()
	if err != nil {
		return domain.Station{}, err
	}

	idx := -1
	for i := range stations {
		if stations[i].ID == stationID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Station{}, fmt.Errorf("add reservation: id %q: %w", stationID, domain.ErrStationNotFound)
	}

	stations[idx].Reservations = append(stations[idx].Reservations, r)

	if err := f.save(stations); err != nil {
		return domain.Station{}, err
	}

	return stations[idx], nil
}

// ReplaceAll overwrites the collection. Used for seeding.
func (f *FileStationRepository) ReplaceAll(ctx context.Context, stations []domain.Station) (err error) {
	defer obs.Time(ctx, "stations.file.ReplaceAll")(&err)

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.save(stations)
}

func (f *FileStationRepository) load() ([]domain.Station, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Station{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stations: read %q: %w", f.path, err)
	}

	var stations []domain.Station
	if err := json.Unmarshal(b, &stations); err != nil {
		return nil, fmt.Errorf("load stations: parse %q: %w", f.path, err)
	}
	for i := range stations {
		if stations[i].Reservations == nil {
			stations[i].Reservations = []domain.ReservationInterval{}
		}
	}

	return stations, nil
}

func (f *FileStationRepository) save(stations []domain.Station) error {
	b, err := json.MarshalIndent(stations, "", "  ")
	if err != nil {
		return fmt.Errorf("save stations: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".stations-*.json")
	if err != nil {
		return fmt.Errorf("save stations: create temp file in %q: %w", dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("save stations: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save stations: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save stations: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("save stations: replace %q: %w", f.path, err)
	}

	return nil
}
