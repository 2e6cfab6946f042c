// Package validation checks identity and payment values on behalf of the
// CLI and MCP adapters and counts every outcome.
package validation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	identity "github.com/felixgeelhaar/digibank/internal/identity/domain"
	payment "github.com/felixgeelhaar/digibank/internal/payment/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

// Service validates raw values. It keeps no state besides its collaborators.
type Service struct {
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a validation service. metrics may be nil.
func NewService(metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{metrics: metrics, logger: logger, now: time.Now}
}

// NationalID checks a CPF. A rejected value is returned as a report and as
// the validation error.
func (s *Service) NationalID(ctx context.Context, raw string) (NationalIDReport, error) {
	report := NationalIDReport{Input: raw}
	n, err := identity.NewNationalID(raw)
	if s.record(ctx, KindNationalID, err) {
		report.Reason = reasonOf(err)
		return report, err
	}
	report.Valid = true
	report.Canonical = n.String()
	report.Masked = n.Mask()
	return report, nil
}

// Email checks an email address.
func (s *Service) Email(ctx context.Context, raw string) (EmailReport, error) {
	report := EmailReport{Input: raw}
	e, err := identity.NewEmail(raw)
	if s.record(ctx, KindEmail, err) {
		report.Reason = reasonOf(err)
		return report, err
	}
	report.Valid = true
	report.Address = e.String()
	report.Domain = e.Domain()
	return report, nil
}

// Phone checks a phone number written in the masked form.
func (s *Service) Phone(ctx context.Context, raw string) (PhoneReport, error) {
	report := PhoneReport{Input: raw}
	p, err := identity.NewPhone(raw)
	if s.record(ctx, KindPhone, err) {
		report.Reason = reasonOf(err)
		return report, err
	}
	report.Valid = true
	report.Canonical = p.String()
	report.Masked = p.Mask()
	report.DDI = p.DDI()
	report.DDD = p.DDD()
	report.Number = p.Number()
	report.Country = p.Country()
	return report, nil
}

// Card checks a payment card against the current date. The brand is
// reported even for rejected cards.
func (s *Service) Card(ctx context.Context, in CardInput) (CardReport, error) {
	report := CardReport{Brand: payment.BrandOf(in.Number)}
	c, err := payment.NewCardAt(in.Number, in.HolderName, in.Expiration, in.CVV, s.now())
	if s.record(ctx, KindCard, err) {
		var verr *sharedDomain.ValidationError
		if errors.As(err, &verr) {
			report.Field = verr.Field
		}
		report.Reason = reasonOf(err)
		return report, err
	}
	report.Valid = true
	report.Brand = c.Brand()
	report.MaskedNumber = c.MaskedNumber()
	report.HolderName = c.HolderName()
	report.Expiration = c.Expiration()
	s.metrics.RecordCardBrand(report.Brand)
	return report, nil
}

// Country resolves a dialing code. Unknown codes are reported with the
// placeholder name and Known set to false.
func (s *Service) Country(ctx context.Context, areaCode int) CountryReport {
	name := identity.CountryByAreaCode(areaCode)
	known := name != identity.UnknownCountry
	s.metrics.RecordOutcome(KindCountry, known)
	if !known {
		s.logger.DebugContext(ctx, "unknown area code", "area_code", areaCode)
	}
	return CountryReport{AreaCode: areaCode, Name: name, Known: known}
}

// AreaCode resolves an exact country name to its dialing code.
func (s *Service) AreaCode(ctx context.Context, name string) (CountryReport, error) {
	code, err := identity.AreaCodeByCountryName(name)
	if s.record(ctx, KindAreaCode, err) {
		return CountryReport{Name: name}, err
	}
	return CountryReport{AreaCode: code, Name: name, Known: true}, nil
}

// Countries lists the directory ordered by dialing code.
func (s *Service) Countries() []CountryReport {
	countries := identity.Countries()
	reports := make([]CountryReport, 0, len(countries))
	for _, c := range countries {
		reports = append(reports, CountryReport{AreaCode: c.AreaCode, Name: c.Name, Known: true})
	}
	return reports
}

// record counts the outcome and reports whether err rejected the value.
func (s *Service) record(ctx context.Context, kind string, err error) bool {
	s.metrics.RecordOutcome(kind, err == nil)
	if err != nil {
		s.logger.DebugContext(ctx, "value rejected", "kind", kind, "error", err)
		return true
	}
	return false
}

func reasonOf(err error) string {
	var verr *sharedDomain.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
