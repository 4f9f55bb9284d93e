package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, borrower_id, borrower_name, item_name, total_price, downpayment, terms,
	monthly_interest_pct, loan_created_date, first_due_date, monthly_due, total_paid,
	payment_progress, outstanding_balances, penalty, status, notes, last_payment_date,
	created_at, updated_at`

// Create creates a new loan
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	ctx := context.Background()
	return createLoan(ctx, r.pool, loan)
}

// rowQuerier covers both the pool and a pgx transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func createLoan(ctx context.Context, q rowQuerier, loan *domain.Loan) (*domain.Loan, error) {
	totalPrice, err := decimalToPgNumeric(loan.TotalPrice)
	if err != nil {
		return nil, err
	}
	downpayment, err := decimalToPgNumeric(loan.Downpayment)
	if err != nil {
		return nil, err
	}
	interestPct, err := decimalToPgNumeric(loan.MonthlyInterestPct)
	if err != nil {
		return nil, err
	}
	monthlyDue, err := decimalToPgNumeric(loan.MonthlyDue)
	if err != nil {
		return nil, err
	}
	totalPaid, err := decimalToPgNumeric(loan.TotalPaid)
	if err != nil {
		return nil, err
	}
	penalty, err := decimalToPgNumeric(loan.Penalty)
	if err != nil {
		return nil, err
	}
	balances, err := encodeBalances(loan.OutstandingBalances)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `
		INSERT INTO loans (
			borrower_id, borrower_name, item_name, total_price, downpayment, terms,
			monthly_interest_pct, loan_created_date, first_due_date, monthly_due, total_paid,
			payment_progress, outstanding_balances, penalty, status, notes, last_payment_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+loanColumns,
		loan.BorrowerID,
		loan.BorrowerName,
		loan.ItemName,
		totalPrice,
		downpayment,
		loan.Terms,
		interestPct,
		loan.LoanCreatedDate,
		pgTimestamptz(loan.FirstDueDate),
		monthlyDue,
		totalPaid,
		loan.PaymentProgress,
		balances,
		penalty,
		loan.Status,
		pgText(loan.Notes),
		pgTimestamptz(loan.LastPaymentDate),
	)
	return scanLoan(row)
}

// GetByID retrieves a loan by ID
func (r *LoanRepository) GetByID(id int32) (*domain.Loan, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoan(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetAll retrieves all loans, newest first
func (r *LoanRepository) GetAll() ([]*domain.Loan, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// GetByBorrower retrieves all loans for a borrower, newest first
func (r *LoanRepository) GetByBorrower(borrowerID int32) ([]*domain.Loan, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE borrower_id = $1 ORDER BY created_at DESC`,
		borrowerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// Update updates an existing loan
func (r *LoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	ctx := context.Background()
	return updateLoan(ctx, r.pool, loan)
}

func updateLoan(ctx context.Context, q rowQuerier, loan *domain.Loan) (*domain.Loan, error) {
	totalPaid, err := decimalToPgNumeric(loan.TotalPaid)
	if err != nil {
		return nil, err
	}
	penalty, err := decimalToPgNumeric(loan.Penalty)
	if err != nil {
		return nil, err
	}
	balances, err := encodeBalances(loan.OutstandingBalances)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `
		UPDATE loans SET
			total_paid = $2,
			payment_progress = $3,
			outstanding_balances = $4,
			penalty = $5,
			status = $6,
			notes = $7,
			last_payment_date = $8,
			first_due_date = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING `+loanColumns,
		loan.ID,
		totalPaid,
		loan.PaymentProgress,
		balances,
		penalty,
		loan.Status,
		pgText(loan.Notes),
		pgTimestamptz(loan.LastPaymentDate),
		pgTimestamptz(loan.FirstDueDate),
	)
	updated, err := scanLoan(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete deletes a loan
func (r *LoanRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan            domain.Loan
		totalPrice      pgtype.Numeric
		downpayment     pgtype.Numeric
		interestPct     pgtype.Numeric
		firstDueDate    pgtype.Timestamptz
		monthlyDue      pgtype.Numeric
		totalPaid       pgtype.Numeric
		balancesJSON    []byte
		penalty         pgtype.Numeric
		notes           pgtype.Text
		lastPaymentDate pgtype.Timestamptz
	)
	err := row.Scan(
		&loan.ID,
		&loan.BorrowerID,
		&loan.BorrowerName,
		&loan.ItemName,
		&totalPrice,
		&downpayment,
		&loan.Terms,
		&interestPct,
		&loan.LoanCreatedDate,
		&firstDueDate,
		&monthlyDue,
		&totalPaid,
		&loan.PaymentProgress,
		&balancesJSON,
		&penalty,
		&loan.Status,
		&notes,
		&lastPaymentDate,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.TotalPrice = pgNumericToDecimal(totalPrice)
	loan.Downpayment = pgNumericToDecimal(downpayment)
	loan.MonthlyInterestPct = pgNumericToDecimal(interestPct)
	loan.FirstDueDate = pgTimestamptzToPtr(firstDueDate)
	loan.MonthlyDue = pgNumericToDecimal(monthlyDue)
	loan.TotalPaid = pgNumericToDecimal(totalPaid)
	loan.Penalty = pgNumericToDecimal(penalty)
	loan.Notes = pgTextToPtr(notes)
	loan.LastPaymentDate = pgTimestamptzToPtr(lastPaymentDate)

	balances, err := decodeBalances(balancesJSON)
	if err != nil {
		return nil, err
	}
	loan.OutstandingBalances = balances

	return &loan, nil
}

func scanLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	loans := []*domain.Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
