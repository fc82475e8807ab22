// Package bookingdb contains booking related CRUD functionality.
//
// The booking table carries a GiST range exclusion constraint over
// (resource_class, resource_id, tstzrange(start_at, end_at)), so an insert
// that races past the business layer's overlap check still fails here and is
// reported as bookingbus.ErrOverlap.
package bookingdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/sdk/order"
	"github.com/jcpaschoal/coopfrota/business/sdk/page"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for booking database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (bookingbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Create inserts a new booking into the database.
func (s *Store) Create(ctx context.Context, bkg bookingbus.Booking) error {
	const q = `
	INSERT INTO "public"."booking"
		(booking_id, org_id, source_org_id, resource_class, resource_id, member_id, requester, note, start_at, end_at, created_at)
	VALUES
		(:booking_id, :org_id, :source_org_id, :resource_class, :resource_id, :member_id, :requester, :note, :start_at, :end_at, :created_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBBooking(bkg)); err != nil {
		var exclErr sqldb.ErrDBExclusion
		if errors.As(err, &exclErr) {
			return fmt.Errorf("namedexeccontext: %w", bookingbus.ErrOverlap)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a booking from the database.
func (s *Store) Delete(ctx context.Context, bkg bookingbus.Booking) error {
	const q = `
	DELETE FROM
		"public"."booking"
	WHERE
		booking_id = :booking_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBBooking(bkg)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified booking from the database.
func (s *Store) QueryByID(ctx context.Context, bookingID uuid.UUID) (bookingbus.Booking, error) {
	data := struct {
		ID string `db:"booking_id"`
	}{
		ID: bookingID.String(),
	}

	const q = `
	SELECT
		booking_id, org_id, source_org_id, resource_class, resource_id, member_id, requester, note, start_at, end_at, created_at
	FROM
		"public"."booking"
	WHERE
		booking_id = :booking_id`

	var dbBkg bookingDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbBkg); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return bookingbus.Booking{}, fmt.Errorf("db: %w", bookingbus.ErrNotFound)
		}
		return bookingbus.Booking{}, fmt.Errorf("db: %w", err)
	}

	return toBusBooking(dbBkg)
}

// QueryByOrg retrieves the bookings attributed to or made by an
// organization, optionally restricted to one UTC calendar day.
func (s *Store) QueryByOrg(ctx context.Context, orgID uuid.UUID, day *time.Time, orderBy order.By, page page.Page) ([]bookingbus.Booking, error) {
	data := map[string]any{
		"org_id":        orgID.String(),
		"offset":        (page.Number() - 1) * page.RowsPerPage(),
		"rows_per_page": page.RowsPerPage(),
	}

	const q = `
	SELECT
		booking_id, org_id, source_org_id, resource_class, resource_id, member_id, requester, note, start_at, end_at, created_at
	FROM
		"public"."booking"
	WHERE
		(org_id = :org_id OR source_org_id = :org_id)`

	buf := bytes.NewBufferString(q)
	applyDayFilter(day, data, buf)

	orderByClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, err
	}

	buf.WriteString(orderByClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	var dbBkgs []bookingDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, buf.String(), data, &dbBkgs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusBookings(dbBkgs)
}

// Count returns the total number of bookings matching the org and day
// filter.
func (s *Store) Count(ctx context.Context, orgID uuid.UUID, day *time.Time) (int, error) {
	data := map[string]any{
		"org_id": orgID.String(),
	}

	const q = `
	SELECT
		count(1)
	FROM
		"public"."booking"
	WHERE
		(org_id = :org_id OR source_org_id = :org_id)`

	buf := bytes.NewBufferString(q)
	applyDayFilter(day, data, buf)

	var count struct {
		Count int `db:"count"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, buf.String(), data, &count); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return count.Count, nil
}

// QueryOverlapping retrieves the bookings for one resource whose range
// overlaps [start, end) under the open-interval test.
func (s *Store) QueryOverlapping(ctx context.Context, ref bookingbus.ResourceRef, start, end time.Time) ([]bookingbus.Booking, error) {
	data := struct {
		Class string    `db:"resource_class"`
		ID    string    `db:"resource_id"`
		Start time.Time `db:"start_at"`
		End   time.Time `db:"end_at"`
	}{
		Class: ref.Class().String(),
		ID:    ref.ID().String(),
		Start: start.UTC(),
		End:   end.UTC(),
	}

	const q = `
	SELECT
		booking_id, org_id, source_org_id, resource_class, resource_id, member_id, requester, note, start_at, end_at, created_at
	FROM
		"public"."booking"
	WHERE
		resource_class = :resource_class
		AND resource_id = :resource_id
		AND start_at < :end_at
		AND end_at > :start_at
	ORDER BY
		start_at`

	var dbBkgs []bookingDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbBkgs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusBookings(dbBkgs)
}

// QueryWindow retrieves every booking whose range overlaps [start, end),
// across all resources, with a single indexed range query.
func (s *Store) QueryWindow(ctx context.Context, start, end time.Time) ([]bookingbus.Booking, error) {
	data := struct {
		Start time.Time `db:"start_at"`
		End   time.Time `db:"end_at"`
	}{
		Start: start.UTC(),
		End:   end.UTC(),
	}

	const q = `
	SELECT
		booking_id, org_id, source_org_id, resource_class, resource_id, member_id, requester, note, start_at, end_at, created_at
	FROM
		"public"."booking"
	WHERE
		start_at < :end_at
		AND end_at > :start_at
	ORDER BY
		start_at`

	var dbBkgs []bookingDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbBkgs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusBookings(dbBkgs)
}

func applyDayFilter(day *time.Time, data map[string]any, buf *bytes.Buffer) {
	if day == nil {
		return
	}

	dayStart, dayEnd := interval.DayWindow(*day)
	data["day_start"] = dayStart
	data["day_end"] = dayEnd
	buf.WriteString(" AND start_at BETWEEN :day_start AND :day_end")
}
