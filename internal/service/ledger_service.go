package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/weeklypay/ledger-engine/internal/config"
	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/internal/export"
	"github.com/weeklypay/ledger-engine/internal/ledger"
	"github.com/weeklypay/ledger-engine/internal/report"
	"github.com/weeklypay/ledger-engine/internal/stats"
	"github.com/weeklypay/ledger-engine/internal/storage"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
)

// LedgerService orchestrates the in-memory ledger and the persistence
// collaborator. Every successful mutation is followed by a full-snapshot save;
// a failed save is surfaced as a STORAGE_SYNC_FAILED outcome while the
// in-memory ledger stays authoritative for the session.
type LedgerService struct {
	Ledger   *ledger.Ledger
	Store    storage.SnapshotStore
	renderer *export.ExcelRenderer
	config   *config.Config
	now      func() time.Time
}

func NewLedgerService(l *ledger.Ledger, store storage.SnapshotStore, cfg *config.Config) *LedgerService {
	return &LedgerService{
		Ledger:   l,
		Store:    store,
		renderer: export.NewExcelRenderer(),
		config:   cfg,
		now:      time.Now,
	}
}

// Init loads the persisted snapshot into the ledger. Called once at startup.
func (s *LedgerService) Init(ctx context.Context) error {
	snapshot, err := s.Store.LoadAll(ctx)
	if err != nil {
		return customError.WrapStorageError(err)
	}
	s.Ledger.Replace(snapshot)
	log.Printf("ledger loaded: %d borrowers", len(snapshot))
	return nil
}

// AddBorrower creates the borrower with its ten-week schedule and persists
// the new snapshot.
func (s *LedgerService) AddBorrower(ctx context.Context, req *domain.CreateBorrowerRequest) (*domain.Borrower, error) {
	dateTaken, err := time.ParseInLocation(time.DateOnly, req.DateOfAmountTaken, time.Local)
	if err != nil {
		return nil, customError.WrapValidationFailed(err)
	}

	borrower := s.Ledger.AddBorrower(req.Name, req.Phone, req.TotalAmount, dateTaken)
	return borrower, s.persist(ctx)
}

// SetInstallmentStatus applies a status transition and persists on success.
func (s *LedgerService) SetInstallmentStatus(ctx context.Context, borrowerID, installmentID uuid.UUID, status string) (*domain.Installment, error) {
	inst, err := s.Ledger.SetInstallmentStatus(borrowerID, installmentID, status)
	if err != nil {
		return nil, err
	}
	return inst, s.persist(ctx)
}

// DeleteBorrower removes a borrower and all its installments.
func (s *LedgerService) DeleteBorrower(ctx context.Context, borrowerID uuid.UUID) error {
	if err := s.Ledger.DeleteBorrower(borrowerID); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DeleteInstallment removes one installment, week-number gaps allowed.
func (s *LedgerService) DeleteInstallment(ctx context.Context, borrowerID, installmentID uuid.UUID) error {
	if err := s.Ledger.DeleteInstallment(borrowerID, installmentID); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Search runs the free-text name/phone search.
func (s *LedgerService) Search(query string) []*domain.BorrowerResponse {
	return withDerived(s.Ledger.Search(query))
}

// Filter applies the status/name/phone filter combination.
func (s *LedgerService) Filter(f ledger.Filter) []*domain.BorrowerResponse {
	return withDerived(s.Ledger.FilterBorrowers(f))
}

// LoansByPhone returns every loan record owned by a phone, in ledger order.
func (s *LedgerService) LoansByPhone(phone string) []*domain.BorrowerResponse {
	return withDerived(s.Ledger.FindByPhone(phone))
}

// Stats recomputes the dashboard aggregates from the current snapshot.
func (s *LedgerService) Stats() *domain.DashboardStats {
	return stats.Compute(s.Ledger.Snapshot(), s.now())
}

// Report projects the ledger into period-bounded rows.
func (s *LedgerService) Report(g domain.Granularity, from, to *time.Time) ([]domain.ReportRow, error) {
	return report.Project(s.Ledger.Snapshot(), g, from, to, s.now())
}

// ExportReport projects the ledger and renders the rows into a spreadsheet,
// returning the bytes and the suggested filename stem.
func (s *LedgerService) ExportReport(g domain.Granularity, from, to *time.Time) ([]byte, string, error) {
	rows, err := s.Report(g, from, to)
	if err != nil {
		return nil, "", err
	}
	artifact, err := s.renderer.Render(rows, g)
	if err != nil {
		return nil, "", err
	}
	return artifact, export.FilenameStem(g, s.now()), nil
}

func (s *LedgerService) persist(ctx context.Context) error {
	if err := s.Store.SaveAll(ctx, s.Ledger.Snapshot()); err != nil {
		log.Printf("ledger snapshot save failed: %v", err)
		return customError.WrapStorageSyncFailed(err)
	}
	return nil
}

func withDerived(borrowers []*domain.Borrower) []*domain.BorrowerResponse {
	out := make([]*domain.BorrowerResponse, len(borrowers))
	for i, b := range borrowers {
		out[i] = domain.NewBorrowerResponse(b)
	}
	return out
}
