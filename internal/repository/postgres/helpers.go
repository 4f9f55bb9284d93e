package postgres

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// decimalToPgNumeric converts a shopspring decimal to a pgtype.Numeric
func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return num, fmt.Errorf("failed to convert decimal: %w", err)
	}
	return num, nil
}

// pgNumericToDecimal converts a pgtype.Numeric to a shopspring decimal
func pgNumericToDecimal(num pgtype.Numeric) decimal.Decimal {
	if !num.Valid || num.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(num.Int, num.Exp)
}

func pgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTextToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func pgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func pgTimestamptzToPtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// encodeBalances serializes the outstanding balance schedule for the
// loans.outstanding_balances jsonb column.
func encodeBalances(balances []domain.OutstandingBalance) ([]byte, error) {
	if balances == nil {
		balances = []domain.OutstandingBalance{}
	}
	data, err := json.Marshal(balances)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outstanding balances: %w", err)
	}
	return data, nil
}

func decodeBalances(data []byte) ([]domain.OutstandingBalance, error) {
	if len(data) == 0 {
		return []domain.OutstandingBalance{}, nil
	}
	var balances []domain.OutstandingBalance
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, fmt.Errorf("failed to decode outstanding balances: %w", err)
	}
	if balances == nil {
		balances = []domain.OutstandingBalance{}
	}
	return balances, nil
}
