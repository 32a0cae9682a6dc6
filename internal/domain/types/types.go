// Package types contains common types used across the application
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/presale/internal/domain/commission"
	"github.com/okian/presale/internal/domain/voucher"
)

// Category identifies one commission or voucher schedule.
type Category string

// Known categories. The string values double as bonus event types and as
// persistence keys.
const (
	BuyerCommission Category = "buyerCommission"
	BuyerVoucher    Category = "buyerVoucher"
	AgencyVoucher   Category = "agencyVoucher"
)

// Sentinel errors shared by the service and its transports.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidPrice    = errors.New("token price must be a finite, non-negative number")
)

// ParseCategory maps a path segment or event type to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{BuyerCommission, BuyerVoucher, AgencyVoucher}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case BuyerCommission, BuyerVoucher, AgencyVoucher:
		return true
	}
	return false
}

// Kind returns the derivation variant used by the category.
func (c Category) Kind() Kind {
	if c == BuyerCommission {
		return KindCommission
	}
	return KindVoucher
}

// Kind selects the derivation variant.
type Kind string

const (
	KindCommission Kind = "commission"
	KindVoucher    Kind = "voucher"
)

// Base-input field names, as addressed by cell edits.
const (
	FieldBuyerCommissionAmount          = "buyerCommissionAmount"
	FieldBuyerStandardCommissionPercent = "buyerStandardCommissionPercent"
	FieldPackageDiscountPercent         = "packageDiscountPercent"
	FieldVoucherAmount                  = "voucherAmount"
	FieldVoucherPercent                 = "voucherPercent"
)

// Fields returns the ordered base-input fields of the kind.
func (k Kind) Fields() []string {
	if k == KindCommission {
		return []string{FieldBuyerCommissionAmount, FieldBuyerStandardCommissionPercent, FieldPackageDiscountPercent}
	}
	return []string{FieldVoucherAmount, FieldVoucherPercent}
}

// Table is the read shape of one category: its base inputs plus the rows
// derived from them.
type Table struct {
	Category       Category             `json:"category"`
	Kind           Kind                 `json:"kind"`
	TokenPrice     float64              `json:"tbcPrice"`
	BonusPercent   float64              `json:"bonusPercent"`
	Inputs         map[string][]float64 `json:"inputs"`
	CommissionRows []commission.Row     `json:"commissionRows,omitempty"`
	VoucherRows    []voucher.Row        `json:"voucherRows,omitempty"`
}

// Len returns the number of derived rows.
func (t Table) Len() int {
	if t.Kind == KindCommission {
		return len(t.CommissionRows)
	}
	return len(t.VoucherRows)
}
