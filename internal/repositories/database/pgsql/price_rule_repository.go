package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
)

// PgxPriceRuleRepository persists price rules. Uniqueness of the
// (service type, property) pair is enforced by partial unique indexes so a
// duplicate rule can never be written, even under concurrent creation.
type PgxPriceRuleRepository struct {
	BaseRepository
}

func newPgxPriceRuleRepository(pool *pgxpool.Pool) portsrepo.PriceRuleRepositoryFacade {
	return &PgxPriceRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PriceRuleRepositoryFacade = (*PgxPriceRuleRepository)(nil)

const priceRuleColumns = `
	rule_id, service_type, pricing_model, fixed_price, hourly_rate,
	property_id, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPriceRule(row pgx.Row) (*domain.PriceRule, error) {
	var rule domain.PriceRule
	err := row.Scan(
		&rule.RuleID,
		&rule.ServiceType,
		&rule.PricingModel,
		&rule.FixedPrice,
		&rule.HourlyRate,
		&rule.PropertyID,
		&rule.Description,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.CreatedBy,
		&rule.LastUpdatedAt,
		&rule.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan price rule", err)
	}
	return &rule, nil
}

// SavePriceRule inserts a new rule, mapping a unique violation on the
// (service type, property) pair to apperrors.ErrDuplicate.
func (r *PgxPriceRuleRepository) SavePriceRule(ctx context.Context, rule domain.PriceRule) error {
	query := `
		INSERT INTO price_rules (` + priceRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		rule.RuleID,
		rule.ServiceType,
		rule.PricingModel,
		rule.FixedPrice,
		rule.HourlyRate,
		rule.PropertyID,
		rule.Description,
		rule.IsActive,
		rule.CreatedAt,
		rule.CreatedBy,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert price rule "+rule.RuleID, err)
	}
	return nil
}

// UpdatePriceRule updates an existing rule. Reactivating a rule whose
// (service type, property) pair has since been claimed by another active rule
// trips the same partial unique index as an insert and maps to
// apperrors.ErrDuplicate.
func (r *PgxPriceRuleRepository) UpdatePriceRule(ctx context.Context, rule domain.PriceRule) error {
	query := `
		UPDATE price_rules
		SET pricing_model = $2, fixed_price = $3, hourly_rate = $4,
		    description = $5, is_active = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE rule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		rule.RuleID,
		rule.PricingModel,
		rule.FixedPrice,
		rule.HourlyRate,
		rule.Description,
		rule.IsActive,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to update price rule "+rule.RuleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeletePriceRule removes a rule.
func (r *PgxPriceRuleRepository) DeletePriceRule(ctx context.Context, ruleID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM price_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete price rule "+ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPriceRuleByID retrieves a rule by its ID.
func (r *PgxPriceRuleRepository) FindPriceRuleByID(ctx context.Context, ruleID string) (*domain.PriceRule, error) {
	query := `SELECT ` + priceRuleColumns + ` FROM price_rules WHERE rule_id = $1;`
	return scanPriceRule(r.Pool.QueryRow(ctx, query, ruleID))
}

// FindRuleForService retrieves the active rule for the exact
// (serviceType, propertyID) pair; a nil propertyID selects the global rule.
func (r *PgxPriceRuleRepository) FindRuleForService(ctx context.Context, serviceType domain.ServiceType, propertyID *string) (*domain.PriceRule, error) {
	if propertyID == nil {
		query := `
			SELECT ` + priceRuleColumns + `
			FROM price_rules
			WHERE service_type = $1 AND property_id IS NULL AND is_active;
		`
		return scanPriceRule(r.Pool.QueryRow(ctx, query, serviceType))
	}
	query := `
		SELECT ` + priceRuleColumns + `
		FROM price_rules
		WHERE service_type = $1 AND property_id = $2 AND is_active;
	`
	return scanPriceRule(r.Pool.QueryRow(ctx, query, serviceType, *propertyID))
}

// ListPriceRules lists rules; with a property ID, the property's rules plus
// the global ones it can fall back to.
func (r *PgxPriceRuleRepository) ListPriceRules(ctx context.Context, propertyID *string) ([]domain.PriceRule, error) {
	query := `
		SELECT ` + priceRuleColumns + `
		FROM price_rules
		WHERE $1::text IS NULL OR property_id = $1 OR property_id IS NULL
		ORDER BY service_type, property_id NULLS LAST;
	`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query price rules", err)
	}
	defer rows.Close()

	rules := []domain.PriceRule{}
	for rows.Next() {
		rule, err := scanPriceRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate price rules", err)
	}
	return rules, nil
}
