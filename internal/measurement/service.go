package measurement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evankoski/liftplan/internal/sqlite"
)

// Service handles the business logic for body measurements.
type Service struct {
	repo   *sqliteMeasurementRepository
	logger *slog.Logger
}

// NewService creates a new measurement service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   &sqliteMeasurementRepository{db: db, logger: logger},
		logger: logger,
	}
}

// Record stores the user's measurement for a day, replacing any earlier entry
// for the same day.
func (s *Service) Record(ctx context.Context, m Measurement) error {
	if m.WeightKg <= 0 {
		return fmt.Errorf("weight must be positive, got %v", m.WeightKg)
	}
	if m.HeightCm <= 0 {
		return fmt.Errorf("height must be positive, got %v", m.HeightCm)
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("record measurement: %w", err)
	}
	return nil
}

// History returns the user's measurements oldest first.
func (s *Service) History(ctx context.Context, userID int) ([]Measurement, error) {
	measurements, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("measurement history: %w", err)
	}
	return measurements, nil
}

// Latest returns the user's most recent measurement.
func (s *Service) Latest(ctx context.Context, userID int) (Measurement, error) {
	m, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return Measurement{}, fmt.Errorf("latest measurement: %w", err)
	}
	return m, nil
}

// Delete removes the user's measurement for a day.
func (s *Service) Delete(ctx context.Context, userID int, measuredOn time.Time) error {
	if err := s.repo.Delete(ctx, userID, measuredOn); err != nil {
		return fmt.Errorf("delete measurement: %w", err)
	}
	return nil
}

// WeightPoint is one point in the body-weight chart series.
type WeightPoint struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
}

// WeightSeries projects the user's measurement history into chart points.
func (s *Service) WeightSeries(ctx context.Context, userID int) ([]WeightPoint, error) {
	measurements, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("weight series: %w", err)
	}
	series := make([]WeightPoint, 0, len(measurements))
	for _, m := range measurements {
		series = append(series, WeightPoint{
			Date:     m.MeasuredOn.Format(dateFormat),
			WeightKg: m.WeightKg,
		})
	}
	return series, nil
}
