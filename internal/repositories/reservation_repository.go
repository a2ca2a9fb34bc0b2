package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentflow/rental-platform/internal/models"
	"github.com/rentflow/rental-platform/internal/utils"
)

type ReservationRepository interface {
	FinalizeOrder(ctx context.Context, client *models.Client, reservations []*models.Reservation) error
	GetReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	ListReservations(ctx context.Context, status models.ReservationStatus, page, size int) ([]*models.Reservation, int, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error
	DeleteReservation(ctx context.Context, id uuid.UUID) error
	ListDeliveryStops(ctx context.Context, from, to time.Time) ([]*models.DeliveryStop, error)
	FinancialReport(ctx context.Context, from, to time.Time) (*models.FinancialReport, error)
}

type reservationRepository struct {
	DB *sql.DB
}

func NewReservationRepo(db *sql.DB) ReservationRepository {
	return &reservationRepository{DB: db}
}

// FinalizeOrder upserts the client by email and inserts one reservation row
// per line item, all inside a single transaction. A failure on any row rolls
// the whole order back, so a half-written order can never be observed.
func (r *reservationRepository) FinalizeOrder(ctx context.Context, client *models.Client, reservations []*models.Reservation) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	// Client upsert keyed on email: update mutable fields in place, keep the
	// original row id.
	upsertQuery := `
		INSERT INTO clients (name, email, phone, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone, document = EXCLUDED.document, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, upsertQuery, client.Name, client.Email, client.Phone, client.Document).
		Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert client: %w", err)
	}

	insertQuery := `
		INSERT INTO reservations (id, client_id, product_id, quantity, start_date, end_date,
		                          status, total_price, payment_status, delivery_address, pickup_address,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	for _, reservation := range reservations {
		reservation.ClientID = client.ID

		err := tx.QueryRowContext(dbCtx, insertQuery,
			reservation.ID, reservation.ClientID, reservation.ProductID, reservation.Quantity,
			reservation.StartDate, reservation.EndDate, reservation.Status, reservation.TotalPrice,
			reservation.PaymentStatus, reservation.DeliveryAddress, reservation.PickupAddress).
			Scan(&reservation.CreatedAt, &reservation.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert reservation for product %d: %w", reservation.ProductID, err)
		}
	}

	return tx.Commit()
}

func (r *reservationRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	reservation := &models.Reservation{}

	query := `
		SELECT id, client_id, product_id, quantity, start_date, end_date,
		       status, total_price, payment_status, delivery_address, pickup_address,
		       created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&reservation.ID, &reservation.ClientID, &reservation.ProductID, &reservation.Quantity,
			&reservation.StartDate, &reservation.EndDate, &reservation.Status, &reservation.TotalPrice,
			&reservation.PaymentStatus, &reservation.DeliveryAddress, &reservation.PickupAddress,
			&reservation.CreatedAt, &reservation.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (r *reservationRepository) ListReservations(ctx context.Context, status models.ReservationStatus, page, size int) ([]*models.Reservation, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// An empty status filter matches everything.
	var total int

	countQuery := `SELECT COUNT(*) FROM reservations WHERE ($1 = '' OR status = $1)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, client_id, product_id, quantity, start_date, end_date,
		       status, total_price, payment_status, delivery_address, pickup_address,
		       created_at, updated_at
		FROM reservations
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, string(status), size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var reservations []*models.Reservation

	for rows.Next() {
		reservation := &models.Reservation{}

		err := rows.Scan(&reservation.ID, &reservation.ClientID, &reservation.ProductID, &reservation.Quantity,
			&reservation.StartDate, &reservation.EndDate, &reservation.Status, &reservation.TotalPrice,
			&reservation.PaymentStatus, &reservation.DeliveryAddress, &reservation.PickupAddress,
			&reservation.CreatedAt, &reservation.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

func (r *reservationRepository) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *reservationRepository) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListDeliveryStops returns one "delivery" stop per reservation starting in
// the window and one "pickup" stop per reservation ending in it, ordered by
// due time. Cancelled reservations are excluded.
func (r *reservationRepository) ListDeliveryStops(ctx context.Context, from, to time.Time) ([]*models.DeliveryStop, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT res.id, res.client_id, c.name, res.product_id, 'delivery', res.start_date, res.delivery_address
		FROM reservations res
		JOIN clients c ON res.client_id = c.id
		WHERE res.start_date >= $1 AND res.start_date < $2 AND res.status <> 'cancelled'
		UNION ALL
		SELECT res.id, res.client_id, c.name, res.product_id, 'pickup', res.end_date, res.pickup_address
		FROM reservations res
		JOIN clients c ON res.client_id = c.id
		WHERE res.end_date >= $1 AND res.end_date < $2 AND res.status <> 'cancelled'
		ORDER BY 6
	`

	rows, err := r.DB.QueryContext(dbCtx, query, from, to)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var stops []*models.DeliveryStop

	for rows.Next() {
		stop := &models.DeliveryStop{}

		err := rows.Scan(&stop.ReservationID, &stop.ClientID, &stop.ClientName, &stop.ProductID,
			&stop.Kind, &stop.Due, &stop.Address)
		if err != nil {
			return nil, err
		}

		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}

// FinancialReport aggregates revenue per month and payment status over the
// window, counting only non-cancelled reservations.
func (r *reservationRepository) FinancialReport(ctx context.Context, from, to time.Time) (*models.FinancialReport, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       payment_status,
		       COUNT(*),
		       COALESCE(SUM(total_price), 0)
		FROM reservations
		WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled'
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, from, to)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	report := &models.FinancialReport{From: from, To: to}

	for rows.Next() {
		row := models.FinancialReportRow{}

		err := rows.Scan(&row.Month, &row.PaymentStatus, &row.ReservationCount, &row.Revenue)
		if err != nil {
			return nil, err
		}

		report.TotalRevenue = report.TotalRevenue.Add(row.Revenue)
		report.Rows = append(report.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
