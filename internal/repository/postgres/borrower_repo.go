package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
)

// BorrowerRepository implements domain.BorrowerRepository using PostgreSQL
type BorrowerRepository struct {
	pool *pgxpool.Pool
}

// NewBorrowerRepository creates a new BorrowerRepository
func NewBorrowerRepository(pool *pgxpool.Pool) *BorrowerRepository {
	return &BorrowerRepository{pool: pool}
}

const borrowerColumns = `id, full_name, home_address, primary_contact, contact_email, work_address,
	reference1_name, reference1_contact, reference2_name, reference2_contact,
	photo_url, total_loans, late_payments, total_paid, created_at, updated_at`

// Create creates a new borrower
func (r *BorrowerRepository) Create(borrower *domain.Borrower) (*domain.Borrower, error) {
	ctx := context.Background()

	totalPaid, err := decimalToPgNumeric(borrower.LoanStats.TotalPaid)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO borrowers (
			full_name, home_address, primary_contact, contact_email, work_address,
			reference1_name, reference1_contact, reference2_name, reference2_contact,
			photo_url, total_loans, late_payments, total_paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+borrowerColumns,
		borrower.FullName,
		borrower.HomeAddress,
		borrower.PrimaryContact,
		pgText(borrower.ContactEmail),
		pgText(borrower.WorkAddress),
		borrower.ReferenceContact1.Name,
		borrower.ReferenceContact1.Contact,
		borrower.ReferenceContact2.Name,
		borrower.ReferenceContact2.Contact,
		pgText(borrower.PhotoURL),
		borrower.LoanStats.TotalLoans,
		borrower.LoanStats.LatePayments,
		totalPaid,
	)
	return scanBorrower(row)
}

// GetByID retrieves a borrower by ID
func (r *BorrowerRepository) GetByID(id int32) (*domain.Borrower, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+borrowerColumns+` FROM borrowers WHERE id = $1`, id)
	borrower, err := scanBorrower(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBorrowerNotFound
		}
		return nil, err
	}
	return borrower, nil
}

// GetAll retrieves all borrowers ordered by name
func (r *BorrowerRepository) GetAll() ([]*domain.Borrower, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+borrowerColumns+` FROM borrowers ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	borrowers := []*domain.Borrower{}
	for rows.Next() {
		borrower, err := scanBorrower(rows)
		if err != nil {
			return nil, err
		}
		borrowers = append(borrowers, borrower)
	}
	return borrowers, rows.Err()
}

// Update updates an existing borrower
func (r *BorrowerRepository) Update(borrower *domain.Borrower) (*domain.Borrower, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE borrowers SET
			full_name = $2,
			home_address = $3,
			primary_contact = $4,
			contact_email = $5,
			work_address = $6,
			reference1_name = $7,
			reference1_contact = $8,
			reference2_name = $9,
			reference2_contact = $10,
			photo_url = $11,
			updated_at = now()
		WHERE id = $1
		RETURNING `+borrowerColumns,
		borrower.ID,
		borrower.FullName,
		borrower.HomeAddress,
		borrower.PrimaryContact,
		pgText(borrower.ContactEmail),
		pgText(borrower.WorkAddress),
		borrower.ReferenceContact1.Name,
		borrower.ReferenceContact1.Contact,
		borrower.ReferenceContact2.Name,
		borrower.ReferenceContact2.Contact,
		pgText(borrower.PhotoURL),
	)
	updated, err := scanBorrower(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBorrowerNotFound
		}
		return nil, err
	}
	return updated, nil
}

// UpdateStats updates a borrower's aggregate loan statistics
func (r *BorrowerRepository) UpdateStats(id int32, stats domain.LoanStats) error {
	ctx := context.Background()

	totalPaid, err := decimalToPgNumeric(stats.TotalPaid)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE borrowers SET
			total_loans = $2,
			late_payments = $3,
			total_paid = $4,
			updated_at = now()
		WHERE id = $1`,
		id, stats.TotalLoans, stats.LatePayments, totalPaid,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBorrowerNotFound
	}
	return nil
}

// Delete deletes a borrower
func (r *BorrowerRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM borrowers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBorrowerNotFound
	}
	return nil
}

func scanBorrower(row pgx.Row) (*domain.Borrower, error) {
	var (
		b            domain.Borrower
		contactEmail pgtype.Text
		workAddress  pgtype.Text
		photoURL     pgtype.Text
		totalPaid    pgtype.Numeric
	)
	err := row.Scan(
		&b.ID,
		&b.FullName,
		&b.HomeAddress,
		&b.PrimaryContact,
		&contactEmail,
		&workAddress,
		&b.ReferenceContact1.Name,
		&b.ReferenceContact1.Contact,
		&b.ReferenceContact2.Name,
		&b.ReferenceContact2.Contact,
		&photoURL,
		&b.LoanStats.TotalLoans,
		&b.LoanStats.LatePayments,
		&totalPaid,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ContactEmail = pgTextToPtr(contactEmail)
	b.WorkAddress = pgTextToPtr(workAddress)
	b.PhotoURL = pgTextToPtr(photoURL)
	b.LoanStats.TotalPaid = pgNumericToDecimal(totalPaid)
	return &b, nil
}
