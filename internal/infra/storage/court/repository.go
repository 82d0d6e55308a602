package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/psqlbuilder"
)

var courtColumns = []string{
	"id",
	"name",
	"slot_duration_minutes",
	"base_price_per_hour",
	"weekend_price_per_hour",
	"peak_price_per_hour",
	"peak_start",
	"peak_end",
	"hudle_facility_id",
	"hudle_activity_id",
	"created_at",
	"updated_at",
}

// Repository reads the court catalog. Courts are administered outside the
// booking flow, so this repository is read-only.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a court repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID loads a court together with its weekly opening hours. Courts are
// validated at this load boundary so callers never see a malformed one.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	court, err := scanCourt(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan court: %v", ErrScanRow, err)
	}

	court.Schedule, err = r.loadSchedule(ctx, executor, id)
	if err != nil {
		return nil, err
	}

	if err := court.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCourt, err)
	}

	return court, nil
}

// List returns all courts with their opening hours.
func (r *Repository) List(ctx context.Context) ([]*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	courts := make([]*domain.Court, 0)
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan court: %v", ErrScanRow, err)
		}
		courts = append(courts, court)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	for _, court := range courts {
		court.Schedule, err = r.loadSchedule(ctx, executor, court.ID)
		if err != nil {
			return nil, err
		}
	}

	return courts, nil
}

func (r *Repository) loadSchedule(ctx context.Context, executor DBExecutor, courtID int64) (domain.WeekSchedule, error) {
	var schedule domain.WeekSchedule

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("court_hours").
		Where(squirrel.Eq{"court_id": courtID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return schedule, fmt.Errorf("%w: loadSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return schedule, fmt.Errorf("%w: loadSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule

		if err := rows.Scan(&weekday, &day.IsOpen, &day.OpenTime, &day.CloseTime); err != nil {
			return schedule, fmt.Errorf("%w: loadSchedule - scan row: %v", ErrScanRow, err)
		}

		// weekday follows time.Weekday numbering: 0 = Sunday.
		switch time.Weekday(weekday) {
		case time.Sunday:
			schedule.Sunday = day
		case time.Monday:
			schedule.Monday = day
		case time.Tuesday:
			schedule.Tuesday = day
		case time.Wednesday:
			schedule.Wednesday = day
		case time.Thursday:
			schedule.Thursday = day
		case time.Friday:
			schedule.Friday = day
		case time.Saturday:
			schedule.Saturday = day
		}
	}
	if err := rows.Err(); err != nil {
		return schedule, fmt.Errorf("%w: loadSchedule - rows error: %v", ErrScanRow, err)
	}

	return schedule, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourt(row rowScanner) (*domain.Court, error) {
	var court domain.Court
	var weekendPrice, peakPrice decimal.NullDecimal
	var facilityID, activityID sql.NullString

	err := row.Scan(
		&court.ID,
		&court.Name,
		&court.SlotDurationMinutes,
		&court.BasePricePerHour,
		&weekendPrice,
		&peakPrice,
		&court.PeakStart,
		&court.PeakEnd,
		&facilityID,
		&activityID,
		&court.CreatedAt,
		&court.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if weekendPrice.Valid {
		p := weekendPrice.Decimal
		court.WeekendPricePerHour = &p
	}
	if peakPrice.Valid {
		p := peakPrice.Decimal
		court.PeakPricePerHour = &p
	}
	if facilityID.Valid {
		court.HudleFacilityID = &facilityID.String
	}
	if activityID.Valid {
		court.HudleActivityID = &activityID.String
	}

	return &court, nil
}
