package storage

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/weeklypay/ledger-engine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS borrowers (
	id                   UUID PRIMARY KEY,
	position             INT NOT NULL,
	name                 TEXT NOT NULL,
	phone                TEXT NOT NULL,
	total_amount         NUMERIC(14,2) NOT NULL,
	date_of_amount_taken DATE NOT NULL,
	day_of_amount_taken  TEXT NOT NULL,
	weekly_amount        NUMERIC(14,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS installments (
	id          UUID PRIMARY KEY,
	borrower_id UUID NOT NULL REFERENCES borrowers(id) ON DELETE CASCADE,
	week_number INT NOT NULL,
	due_date    DATE NOT NULL,
	amount      NUMERIC(14,2) NOT NULL,
	status      TEXT NOT NULL,
	paid_date   DATE
);
`

// postgresStore persists the snapshot relationally: borrowers carry an
// explicit position column so the ledger's insertion order survives reloads.
type postgresStore struct {
	db       *sqlx.DB
	validate *validator.Validate
}

func NewPostgresStore(db *sqlx.DB) SnapshotStore {
	return &postgresStore{db: db, validate: newRecordValidator()}
}

// EnsureSchema creates the snapshot tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *postgresStore) LoadAll(ctx context.Context) ([]*domain.Borrower, error) {
	query := `
		SELECT id, name, phone, total_amount, date_of_amount_taken, day_of_amount_taken, weekly_amount
		FROM borrowers
		ORDER BY position
	`

	var borrowers []*domain.Borrower
	if err := s.db.SelectContext(ctx, &borrowers, query); err != nil {
		return nil, err
	}

	instQuery := `
		SELECT id, borrower_id, week_number, due_date, amount, status, paid_date
		FROM installments
		ORDER BY week_number
	`

	var rows []installmentRow
	if err := s.db.SelectContext(ctx, &rows, instQuery); err != nil {
		return nil, err
	}

	byBorrower := make(map[uuid.UUID][]*domain.Installment, len(borrowers))
	for _, row := range rows {
		byBorrower[row.BorrowerID] = append(byBorrower[row.BorrowerID], row.toInstallment())
	}
	for _, b := range borrowers {
		b.Installments = byBorrower[b.ID]
		if b.Installments == nil {
			b.Installments = []*domain.Installment{}
		}
	}

	return quarantine(borrowers, s.validate), nil
}

func (s *postgresStore) SaveAll(ctx context.Context, snapshot []*domain.Borrower) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Whole-snapshot semantics: clear and reinsert inside one transaction.
	if _, err = tx.ExecContext(ctx, `DELETE FROM installments`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM borrowers`); err != nil {
		return err
	}

	borrowerInsert := `
		INSERT INTO borrowers (id, position, name, phone, total_amount, date_of_amount_taken, day_of_amount_taken, weekly_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	installmentInsert := `
		INSERT INTO installments (id, borrower_id, week_number, due_date, amount, status, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for position, b := range snapshot {
		_, err = tx.ExecContext(ctx, borrowerInsert,
			b.ID,
			position,
			b.Name,
			b.Phone,
			b.TotalAmount,
			b.DateOfAmountTaken,
			b.DayOfAmountTaken,
			b.WeeklyAmount,
		)
		if err != nil {
			return err
		}

		for _, inst := range b.Installments {
			_, err = tx.ExecContext(ctx, installmentInsert,
				inst.ID,
				b.ID,
				inst.WeekNumber,
				inst.DueDate,
				inst.Amount,
				inst.Status,
				inst.PaidDate,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

type installmentRow struct {
	domain.Installment
	BorrowerID uuid.UUID `db:"borrower_id"`
}

func (r installmentRow) toInstallment() *domain.Installment {
	inst := r.Installment
	return &inst
}
