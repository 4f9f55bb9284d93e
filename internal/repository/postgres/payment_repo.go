package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, reference_number, loan_id, borrower_id, amount_paid, penalty_paid,
	payment_date, payment_method, payment_status, notes, created_at`

// Create creates a new payment
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()
	return createPayment(ctx, r.pool, payment)
}

// CreateWithLoan persists the payment and the updated loan snapshot in a
// single transaction.
func (r *PaymentRepository) CreateWithLoan(payment *domain.Payment, loan *domain.Loan) (*domain.Payment, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := createPayment(ctx, tx, payment)
	if err != nil {
		return nil, err
	}

	if _, err := updateLoan(ctx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func createPayment(ctx context.Context, q rowQuerier, payment *domain.Payment) (*domain.Payment, error) {
	amountPaid, err := decimalToPgNumeric(payment.AmountPaid)
	if err != nil {
		return nil, err
	}
	penaltyPaid, err := decimalToPgNumeric(payment.PenaltyPaid)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `
		INSERT INTO payments (
			reference_number, loan_id, borrower_id, amount_paid, penalty_paid,
			payment_date, payment_method, payment_status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+paymentColumns,
		payment.ReferenceNumber,
		payment.LoanID,
		payment.BorrowerID,
		amountPaid,
		penaltyPaid,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.PaymentStatus,
		pgText(payment.Notes),
	)
	return scanPayment(row)
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetAll retrieves all payments, newest first
func (r *PaymentRepository) GetAll() ([]*domain.Payment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY payment_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// GetByLoan retrieves all payments for a loan, newest first
func (r *PaymentRepository) GetByLoan(loanID int32) ([]*domain.Payment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE loan_id = $1 ORDER BY payment_date DESC, id DESC`,
		loanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// Delete deletes a payment
func (r *PaymentRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment     domain.Payment
		amountPaid  pgtype.Numeric
		penaltyPaid pgtype.Numeric
		notes       pgtype.Text
	)
	err := row.Scan(
		&payment.ID,
		&payment.ReferenceNumber,
		&payment.LoanID,
		&payment.BorrowerID,
		&amountPaid,
		&penaltyPaid,
		&payment.PaymentDate,
		&payment.PaymentMethod,
		&payment.PaymentStatus,
		&notes,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	payment.AmountPaid = pgNumericToDecimal(amountPaid)
	payment.PenaltyPaid = pgNumericToDecimal(penaltyPaid)
	payment.Notes = pgTextToPtr(notes)
	return &payment, nil
}

func scanPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	payments := []*domain.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
