package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
)

// PolicyFilter narrows List results; zero values mean no filtering.
type PolicyFilter struct {
	Carrier  string
	Category string
}

type PolicyRepository interface {
	Create(ctx context.Context, rec entity.PolicyRecord, source string) (*entity.Policy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Policy, error)
	List(ctx context.Context, filter PolicyFilter) ([]*entity.Policy, error)
	Update(ctx context.Context, id uuid.UUID, rec entity.PolicyRecord) (*entity.Policy, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type policyRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewPolicyRepository(db *DB, logger *slog.Logger) PolicyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &policyRepository{db: db, logger: logger}
}

const policyColumns = `id, category, carrier, policy_number, name, insured,
	start_date, coverage_amount, annual_premium, payment_years, beneficiary,
	interest_rate, currency, exchange_rate, converted_amount,
	source, completeness, created_at, updated_at`

func (r *policyRepository) Create(ctx context.Context, rec entity.PolicyRecord, source string) (*entity.Policy, error) {
	now := time.Now().UTC()
	p := &entity.Policy{
		ID:           uuid.New(),
		PolicyRecord: rec,
		Source:       source,
		Completeness: rec.Completeness(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := r.db.rebind(`INSERT INTO policies (` + policyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		p.ID.String(), p.Category, p.Carrier, p.PolicyNumber, p.Name,
		p.Insured, p.StartDate, p.CoverageAmount, p.AnnualPremium,
		p.PaymentYears, p.Beneficiary, p.InterestRate, p.Currency,
		p.ExchangeRate, p.ConvertedAmount, p.Source, p.Completeness,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create policy", "error", err)
		return nil, common.WrapError(err, "create policy")
	}
	return p, nil
}

func (r *policyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Policy, error) {
	query := r.db.rebind(`SELECT ` + policyColumns + ` FROM policies WHERE id = ?`)
	p, err := scanPolicy(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get policy", "id", id, "error", err)
		return nil, common.WrapError(err, "get policy")
	}
	return p, nil
}

func (r *policyRepository) List(ctx context.Context, filter PolicyFilter) ([]*entity.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE 1=1`
	var args []any
	if filter.Carrier != "" {
		query += ` AND carrier = ?`
		args = append(args, filter.Carrier)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		r.logger.Error("failed to list policies", "error", err)
		return nil, common.WrapError(err, "list policies")
	}
	defer rows.Close()

	var out []*entity.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan policy")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *policyRepository) Update(ctx context.Context, id uuid.UUID, rec entity.PolicyRecord) (*entity.Policy, error) {
	query := r.db.rebind(`UPDATE policies SET
		category = ?, carrier = ?, policy_number = ?, name = ?, insured = ?,
		start_date = ?, coverage_amount = ?, annual_premium = ?,
		payment_years = ?, beneficiary = ?, interest_rate = ?, currency = ?,
		exchange_rate = ?, converted_amount = ?, completeness = ?, updated_at = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		rec.Category, rec.Carrier, rec.PolicyNumber, rec.Name, rec.Insured,
		rec.StartDate, rec.CoverageAmount, rec.AnnualPremium,
		rec.PaymentYears, rec.Beneficiary, rec.InterestRate, rec.Currency,
		rec.ExchangeRate, rec.ConvertedAmount, rec.Completeness(),
		time.Now().UTC(), id.String(),
	)
	if err != nil {
		r.logger.Error("failed to update policy", "id", id, "error", err)
		return nil, common.WrapError(err, "update policy")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *policyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.rebind(`DELETE FROM policies WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		r.logger.Error("failed to delete policy", "id", id, "error", err)
		return common.WrapError(err, "delete policy")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (*entity.Policy, error) {
	var (
		p  entity.Policy
		id string
	)
	err := row.Scan(
		&id, &p.Category, &p.Carrier, &p.PolicyNumber, &p.Name, &p.Insured,
		&p.StartDate, &p.CoverageAmount, &p.AnnualPremium, &p.PaymentYears,
		&p.Beneficiary, &p.InterestRate, &p.Currency, &p.ExchangeRate,
		&p.ConvertedAmount, &p.Source, &p.Completeness,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
