package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	"github.com/gitayam/short-term-land-lord-sub001/internal/utils"
)

// invoiceNumberRetries bounds the retry loop when a concurrently created
// invoice claims the sequence number first. The unique constraint on
// invoice_number is the last line of defense.
const invoiceNumberRetries = 3

// PgxInvoiceRepository persists invoices and their items. Every mutation
// runs in a single transaction with the invoice row locked, so guards and
// totals always observe a consistent item set.
type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, invoice_number, property_id, date_from, date_to, status,
	subtotal, tax_rate, tax_amount, total, due_date, paid_date, sent_at, version,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.InvoiceNumber,
		&inv.PropertyID,
		&inv.DateFrom,
		&inv.DateTo,
		&inv.Status,
		&inv.Subtotal,
		&inv.TaxRate,
		&inv.TaxAmount,
		&inv.Total,
		&inv.DueDate,
		&inv.PaidDate,
		&inv.SentAt,
		&inv.Version,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
	}
	return &inv, nil
}

// invoiceNumberPrefix is the shared date prefix of every number issued for a
// billing date, INV-YYYYMMDD-.
func invoiceNumberPrefix(date time.Time) string {
	return "INV-" + date.Format("20060102") + "-"
}

// invoiceNumber formats the number after the highest suffix already issued
// for the date. Suffixes are 1-based and zero-padded to four digits.
func invoiceNumber(date time.Time, maxSuffix int) string {
	return fmt.Sprintf("%s%04d", invoiceNumberPrefix(date), maxSuffix+1)
}

// nextInvoiceNumber derives the next number for the date from the maximum
// existing suffix for that date prefix, inside the caller's transaction.
// Never an in-memory counter: concurrent transactions race on the unique
// constraint instead of silently colliding.
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	var maxSuffix int
	query := `
		SELECT COALESCE(MAX(CAST(RIGHT(invoice_number, 4) AS INTEGER)), 0)
		FROM invoices
		WHERE invoice_number LIKE $1 || '%';
	`
	if err := tx.QueryRow(ctx, query, invoiceNumberPrefix(date)).Scan(&maxSuffix); err != nil {
		return "", apperrors.NewAppError(500, "failed to derive next invoice number", err)
	}
	return invoiceNumber(date, maxSuffix), nil
}

// CreateDraftInvoice inserts a draft invoice, assigning its number in the
// same transaction. A collision on the invoice_number unique constraint is
// retried with a freshly computed sequence.
func (r *PgxInvoiceRepository) CreateDraftInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	var lastErr error
	for attempt := 0; attempt < invoiceNumberRetries; attempt++ {
		created, err := r.tryCreateDraft(ctx, invoice)
		if err == nil {
			return created, nil
		}
		if !isUniqueViolation(err, "invoices_invoice_number_key") {
			return nil, err
		}
		lastErr = err
	}
	return nil, apperrors.NewAppError(500, "failed to assign unique invoice number", lastErr)
}

func (r *PgxInvoiceRepository) tryCreateDraft(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	number, err := nextInvoiceNumber(ctx, tx, invoice.CreatedAt)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number
	invoice.Version = 1

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		invoice.PropertyID,
		invoice.DateFrom,
		invoice.DateTo,
		invoice.Status,
		invoice.Subtotal,
		invoice.TaxRate,
		invoice.TaxAmount,
		invoice.Total,
		invoice.DueDate,
		invoice.PaidDate,
		invoice.SentAt,
		invoice.Version,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "invoices_invoice_number_key") {
			return nil, err
		}
		return nil, apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// lockInvoice fetches the invoice row FOR UPDATE, establishing the
// single-writer-per-invoice guarantee for the rest of the transaction.
func lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	return scanInvoice(tx.QueryRow(ctx, query, invoiceID))
}

// applyTotals writes recalculated figures onto the invoice: subtotal is the
// item sum, tax is the subtotal at the invoice's rate, total their sum. The
// version bump makes a concurrent stale write detectable.
func applyTotals(invoice *domain.Invoice, subtotal decimal.Decimal, actor string, now time.Time) {
	invoice.Subtotal = subtotal
	invoice.TaxAmount = utils.PercentOf(subtotal, invoice.TaxRate)
	invoice.Total = subtotal.Add(invoice.TaxAmount)
	invoice.Version++
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actor
}

// guardEditable rejects item mutation on any invoice that has left DRAFT.
func guardEditable(invoice *domain.Invoice) error {
	if !invoice.Editable() {
		return fmt.Errorf("%w: invoice %s is %s", apperrors.ErrInvoiceNotEditable, invoice.InvoiceID, invoice.Status)
	}
	return nil
}

// guardTransition checks the operation's allowed source states and the
// domain transition table against the locked row's current status.
func guardTransition(invoice *domain.Invoice, allowedFrom []domain.InvoiceStatus, to domain.InvoiceStatus) error {
	allowed := false
	for _, from := range allowedFrom {
		if invoice.Status == from {
			allowed = true
			break
		}
	}
	if !allowed || !domain.CanTransition(invoice.Status, to) {
		return fmt.Errorf("%w: %s -> %s for invoice %s", apperrors.ErrInvalidTransition, invoice.Status, to, invoice.InvoiceID)
	}
	return nil
}

// guardItems rejects an empty invoice for transitions that require content.
func guardItems(itemCount int, invoiceID string) error {
	if itemCount == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrEmptyInvoice, invoiceID)
	}
	return nil
}

// recalcTotalsTx rederives the invoice totals from its persisted items and
// writes them back, bumping the version. Runs inside the caller's
// transaction.
func recalcTotalsTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, actor string, now time.Time) error {
	var subtotal decimal.Decimal
	sumQuery := `SELECT COALESCE(SUM(amount), 0) FROM invoice_items WHERE invoice_id = $1;`
	if err := tx.QueryRow(ctx, sumQuery, invoice.InvoiceID).Scan(&subtotal); err != nil {
		return apperrors.NewAppError(500, "failed to sum invoice items for "+invoice.InvoiceID, err)
	}

	applyTotals(invoice, subtotal, actor, now)

	updateQuery := `
		UPDATE invoices
		SET subtotal = $2, tax_amount = $3, total = $4, version = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE invoice_id = $1;
	`
	_, err := tx.Exec(ctx, updateQuery,
		invoice.InvoiceID,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.Total,
		invoice.Version,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice totals for "+invoice.InvoiceID, err)
	}
	return nil
}

// AddInvoiceItem appends an item to a DRAFT invoice and recalculates totals
// in one transaction. The source work unit, if any, is marked invoiced here;
// the unique index on invoice_items.work_unit_id turns a double-billing race
// into ErrAlreadyInvoiced.
func (r *PgxInvoiceRepository) AddInvoiceItem(ctx context.Context, invoiceID string, item domain.InvoiceItem) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	invoice, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardEditable(invoice); err != nil {
		return nil, err
	}

	itemQuery := `
		INSERT INTO invoice_items (
			item_id, invoice_id, description, quantity, unit_price, amount,
			service_type, work_unit_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, itemQuery,
		item.ItemID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
		item.ServiceType,
		item.WorkUnitID,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "invoice_items_work_unit_id_key") {
			return nil, fmt.Errorf("%w: work unit %s", apperrors.ErrAlreadyInvoiced, *item.WorkUnitID)
		}
		return nil, apperrors.NewAppError(500, "failed to insert invoice item "+item.ItemID, err)
	}

	if item.WorkUnitID != nil {
		tag, err := tx.Exec(ctx, `UPDATE work_units SET invoiced = TRUE WHERE work_unit_id = $1 AND NOT invoiced;`, *item.WorkUnitID)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to mark work unit invoiced", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: work unit %s", apperrors.ErrAlreadyInvoiced, *item.WorkUnitID)
		}
	}

	if err := recalcTotalsTx(ctx, tx, invoice, item.CreatedBy, item.CreatedAt); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RemoveInvoiceItem deletes an item from a DRAFT invoice, clears the
// invoiced marker on its work unit and recalculates totals.
func (r *PgxInvoiceRepository) RemoveInvoiceItem(ctx context.Context, invoiceID, itemID string, actor string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	invoice, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardEditable(invoice); err != nil {
		return nil, err
	}

	var workUnitID *string
	err = tx.QueryRow(ctx, `
		DELETE FROM invoice_items
		WHERE item_id = $1 AND invoice_id = $2
		RETURNING work_unit_id;
	`, itemID, invoiceID).Scan(&workUnitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to delete invoice item "+itemID, err)
	}

	if workUnitID != nil {
		if _, err := tx.Exec(ctx, `UPDATE work_units SET invoiced = FALSE WHERE work_unit_id = $1;`, *workUnitID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to clear work unit invoiced marker", err)
		}
	}

	if err := recalcTotalsTx(ctx, tx, invoice, actor, now); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RecalculateTotals rederives totals from the persisted item set. Idempotent.
func (r *PgxInvoiceRepository) RecalculateTotals(ctx context.Context, invoiceID string, actor string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	invoice, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := recalcTotalsTx(ctx, tx, invoice, actor, now); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateInvoiceStatus transitions the invoice after re-checking its current
// status under the row lock. requireItems rejects empty invoices, which
// keeps an empty draft from ever being sent.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, allowedFrom []domain.InvoiceStatus, to domain.InvoiceStatus, requireItems bool, stamp portsrepo.StatusStamp, actor string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	invoice, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := guardTransition(invoice, allowedFrom, to); err != nil {
		return nil, err
	}

	if requireItems {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM invoice_items WHERE invoice_id = $1;`, invoiceID).Scan(&count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to count invoice items for "+invoiceID, err)
		}
		if err := guardItems(count, invoiceID); err != nil {
			return nil, err
		}
	}

	invoice.Status = to
	if stamp.SentAt != nil {
		invoice.SentAt = stamp.SentAt
	}
	if stamp.PaidDate != nil {
		invoice.PaidDate = stamp.PaidDate
	}
	invoice.Version++
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actor

	query := `
		UPDATE invoices
		SET status = $2, sent_at = $3, paid_date = $4, version = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE invoice_id = $1;
	`
	_, err = tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.Status,
		invoice.SentAt,
		invoice.PaidDate,
		invoice.Version,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update invoice status for "+invoiceID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return invoice, nil
}

// DeleteInvoice removes an invoice and its items when the locked status
// permits, releasing any work units its items had claimed.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	invoice, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if !invoice.Deletable() {
		return fmt.Errorf("%w: invoice %s is %s", apperrors.ErrInvoiceNotDeletable, invoiceID, invoice.Status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE work_units SET invoiced = FALSE
		WHERE work_unit_id IN (
			SELECT work_unit_id FROM invoice_items
			WHERE invoice_id = $1 AND work_unit_id IS NOT NULL
		);
	`, invoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to release work units for invoice "+invoiceID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete items for invoice "+invoiceID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// SweepOverdue moves every SENT invoice past its due date to OVERDUE.
// Idempotent: already-OVERDUE rows are untouched.
func (r *PgxInvoiceRepository) SweepOverdue(ctx context.Context, now time.Time, actor string) ([]domain.Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE status = $4 AND due_date < $2 AND paid_date IS NULL
		RETURNING ` + invoiceColumns + `;
	`
	rows, err := r.Pool.Query(ctx, query, domain.InvoiceOverdue, now, actor, domain.InvoiceSent)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sweep overdue invoices", err)
	}
	defer rows.Close()

	moved := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		moved = append(moved, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate swept invoices", err)
	}
	return moved, nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	return scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
}

// FindItemsByInvoiceID retrieves all items on an invoice in insertion order.
func (r *PgxInvoiceRepository) FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT item_id, invoice_id, description, quantity, unit_price, amount,
		       service_type, work_unit_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY created_at, item_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for invoice "+invoiceID, err)
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var item domain.InvoiceItem
		err := rows.Scan(
			&item.ItemID,
			&item.InvoiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Amount,
			&item.ServiceType,
			&item.WorkUnitID,
			&item.CreatedAt,
			&item.CreatedBy,
			&item.LastUpdatedAt,
			&item.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate invoice items", err)
	}
	return items, nil
}

// ListInvoices lists invoices matching the filter, newest first.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter) ([]domain.Invoice, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1::text IS NULL OR property_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, invoice_number DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, filter.PropertyID, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate invoices", err)
	}
	return invoices, nil
}

// FindPaidInvoicesInRange lists PAID invoices with a paid date in the range
// for the given properties; nil means all properties.
func (r *PgxInvoiceRepository) FindPaidInvoicesInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status = $1
		  AND paid_date >= $2 AND paid_date <= $3
		  AND ($4::text[] IS NULL OR property_id = ANY($4))
		ORDER BY paid_date, invoice_number;
	`
	rows, err := r.Pool.Query(ctx, query, domain.InvoicePaid, from, to, propertyIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query paid invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate paid invoices", err)
	}
	return invoices, nil
}

// SumPaidItemAmountsByWorker totals line-item amounts on PAID invoices paid
// within the range whose source work unit was completed by the worker.
func (r *PgxInvoiceRepository) SumPaidItemAmountsByWorker(ctx context.Context, workerID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(ii.amount), 0)
		FROM invoice_items ii
		JOIN invoices i ON ii.invoice_id = i.invoice_id
		JOIN work_units wu ON ii.work_unit_id = wu.work_unit_id
		WHERE i.status = $1
		  AND i.paid_date >= $2 AND i.paid_date <= $3
		  AND wu.worker_id = $4;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, domain.InvoicePaid, from, to, workerID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum worker item amounts", err)
	}
	return total, nil
}
