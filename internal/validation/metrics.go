package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Checked value kinds used as metric labels.
const (
	KindNationalID = "national_id"
	KindEmail      = "email"
	KindPhone      = "phone"
	KindCard       = "card"
	KindCountry    = "country"
	KindAreaCode   = "area_code"
)

// Metrics counts validation outcomes.
type Metrics struct {
	// Outcomes by kind and result ("valid" or "invalid").
	Outcomes *prometheus.CounterVec

	// Accepted cards by brand.
	CardBrands *prometheus.CounterVec
}

// NewMetrics registers the validation metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digibank_validation_outcomes_total",
			Help: "Total validations by value kind and result",
		}, []string{"kind", "result"}),

		CardBrands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digibank_validation_card_brands_total",
			Help: "Total accepted cards by brand",
		}, []string{"brand"}),
	}
}

// RecordOutcome counts one validation.
func (m *Metrics) RecordOutcome(kind string, valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.Outcomes.WithLabelValues(kind, result).Inc()
}

// RecordCardBrand counts an accepted card.
func (m *Metrics) RecordCardBrand(brand string) {
	if m != nil {
		m.CardBrands.WithLabelValues(brand).Inc()
	}
}
