package domain

import "errors"

// ErrUnknownExpenseCategory indicates an expense category missing from the
// bucket table. Surfacing it loudly keeps a misconfigured category from being
// silently dropped out of financial totals.
var ErrUnknownExpenseCategory = errors.New("unknown expense category")
