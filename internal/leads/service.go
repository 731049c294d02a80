// Package leads runs the lead workflows on top of the company store: the
// initial load, resetting to fresh data, single submissions and bulk
// imports.
package leads

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sells-group/lead-tracker/internal/ingest"
	"github.com/sells-group/lead-tracker/internal/model"
	"github.com/sells-group/lead-tracker/internal/store"
	"github.com/sells-group/lead-tracker/internal/validate"
)

// Service coordinates the store and the ingestion source.
type Service struct {
	store  *store.CompanyStore
	source ingest.Source
}

// New creates a Service.
func New(st *store.CompanyStore, src ingest.Source) *Service {
	return &Service{store: st, source: src}
}

// Store returns the underlying store.
func (s *Service) Store() *store.CompanyStore {
	return s.store
}

// Load restores the persisted collection, or fetches a fresh one when
// nothing was persisted.
func (s *Service) Load(ctx context.Context) error {
	if s.store.Hydrate(ctx) {
		return nil
	}
	return s.fetch(ctx)
}

// Reset fetches a fresh collection to replace the current one. The
// persisted copy is only replaced once the fetch succeeds; on failure the
// in-memory collection is kept and written back.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.fetch(ctx); err != nil {
		s.store.Persist(ctx)
		return err
	}
	return nil
}

func (s *Service) fetch(ctx context.Context) error {
	s.store.SetLoading(true)
	s.store.SetError("")

	companies, err := s.source.FetchCompanies(ctx)
	if err != nil {
		s.store.SetError(err.Error())
		return err
	}
	warnInvalid(companies)

	s.store.SetCompanies(ctx, companies)
	s.store.SetLoading(false)
	return nil
}

// warnInvalid logs fetched records that a form submission would reject.
// They are kept as delivered.
func warnInvalid(companies []model.CompanyData) {
	for i, c := range companies {
		var errs validate.Errors
		if err := validate.Record(c); errors.As(err, &errs) {
			zap.L().Warn("leads: fetched record fails validation",
				zap.Int("index", i),
				zap.String("company", c.Company),
				zap.Strings("fields", errs.Fields()),
			)
		}
	}
}

// SubmitResult reports the outcome of a successful submission.
type SubmitResult struct {
	WasUpdated bool              `json:"was_updated"`
	Index      int               `json:"index"`
	Company    model.CompanyData `json:"company"`
}

// Submit validates form and upserts it. A validation failure returns
// validate.Errors and leaves the collection untouched.
func (s *Service) Submit(ctx context.Context, form validate.CompanyForm) (SubmitResult, error) {
	c, err := validate.Company(form)
	if err != nil {
		return SubmitResult{}, err
	}
	res := s.store.AddOrUpdateCompany(ctx, c)
	return SubmitResult{WasUpdated: res.WasUpdated, Index: res.Index, Company: c}, nil
}

// RejectedRow is an import row that failed validation. Row is 1-based
// among the data rows.
type RejectedRow struct {
	Row    int             `json:"row"`
	Errors validate.Errors `json:"errors"`
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Added    int           `json:"added"`
	Updated  int           `json:"updated"`
	Rejected []RejectedRow `json:"rejected,omitempty"`
}

// Import submits each form in order. Each row is matched against the
// collection as left by the rows before it.
func (s *Service) Import(ctx context.Context, forms []validate.CompanyForm) (ImportReport, error) {
	var report ImportReport
	for i, form := range forms {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := s.Submit(ctx, form)
		if err != nil {
			var errs validate.Errors
			if !errors.As(err, &errs) {
				return report, err
			}
			report.Rejected = append(report.Rejected, RejectedRow{Row: i + 1, Errors: errs})
			continue
		}
		if res.WasUpdated {
			report.Updated++
		} else {
			report.Added++
		}
	}
	zap.L().Info("leads: import finished",
		zap.Int("added", report.Added),
		zap.Int("updated", report.Updated),
		zap.Int("rejected", len(report.Rejected)),
	)
	return report, nil
}
