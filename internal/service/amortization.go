package service

import (
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CalculateMonthlyDue computes the fixed installment that fully
// amortizes totalPrice - downpayment over the given number of terms at
// monthlyInterestPct percent per period:
//
//	due = financed * r * (1+r)^terms / ((1+r)^terms - 1)
//
// A zero rate degenerates the formula to division by zero, so that case
// is an even split of the financed amount across the terms.
func CalculateMonthlyDue(totalPrice, downpayment decimal.Decimal, terms int32, monthlyInterestPct decimal.Decimal) (decimal.Decimal, error) {
	if err := validateLoanTerms(totalPrice, downpayment, terms, monthlyInterestPct); err != nil {
		return decimal.Zero, err
	}

	financed := totalPrice.Sub(downpayment)
	termsDec := decimal.NewFromInt(int64(terms))

	rate := monthlyInterestPct.Div(oneHundred)
	if rate.IsZero() {
		return financed.Div(termsDec).Round(2), nil
	}

	compound := decimal.NewFromInt(1).Add(rate).Pow(termsDec)
	due := financed.Mul(rate).Mul(compound).Div(compound.Sub(decimal.NewFromInt(1)))
	return due.Round(2), nil
}

// CalculateTotalInterest computes the interest paid over the life of the
// loan: monthlyDue * terms - financed.
func CalculateTotalInterest(totalPrice, downpayment decimal.Decimal, terms int32, monthlyInterestPct decimal.Decimal) (decimal.Decimal, error) {
	monthlyDue, err := CalculateMonthlyDue(totalPrice, downpayment, terms, monthlyInterestPct)
	if err != nil {
		return decimal.Zero, err
	}
	financed := totalPrice.Sub(downpayment)
	return monthlyDue.Mul(decimal.NewFromInt(int64(terms))).Sub(financed), nil
}

// CalculateTotalAmountPayable computes everything the borrower pays:
// monthlyDue * terms + downpayment.
func CalculateTotalAmountPayable(totalPrice, downpayment decimal.Decimal, terms int32, monthlyInterestPct decimal.Decimal) (decimal.Decimal, error) {
	monthlyDue, err := CalculateMonthlyDue(totalPrice, downpayment, terms, monthlyInterestPct)
	if err != nil {
		return decimal.Zero, err
	}
	return monthlyDue.Mul(decimal.NewFromInt(int64(terms))).Add(downpayment), nil
}

func validateLoanTerms(totalPrice, downpayment decimal.Decimal, terms int32, monthlyInterestPct decimal.Decimal) error {
	if totalPrice.LessThanOrEqual(decimal.Zero) {
		return domain.ErrLoanAmountInvalid
	}
	if downpayment.IsNegative() || downpayment.GreaterThanOrEqual(totalPrice) {
		return domain.ErrLoanDownpaymentInvalid
	}
	if terms < 1 {
		return domain.ErrLoanTermsInvalid
	}
	if monthlyInterestPct.IsNegative() {
		return domain.ErrLoanInterestInvalid
	}
	return nil
}
