// Package eligibility computes parole eligibility verdicts from sentence
// records. The computation is pure: the same record, date and policy always
// produce the same verdict, so historical reports can replay it with any
// as-of date.
package eligibility

import (
	"fmt"
	"time"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/server/models"
)

// Policy carries the injectable constants of the eligibility rule. The
// historical system used inconsistent thresholds across screens, so nothing
// here is hard-coded: the service wires values from configuration.
type Policy struct {
	// ConductPointThreshold is the minimum conduct-point balance.
	ConductPointThreshold int
	// FractionNumerator / FractionDenominator define the served fraction of
	// the sentence after which parole may be considered (2/3 by default).
	FractionNumerator   int
	FractionDenominator int
}

// DefaultPolicy returns the rule as written in the policy documents:
// two thirds of the sentence served and at least 75 conduct points.
func DefaultPolicy() Policy {
	return Policy{
		ConductPointThreshold: 75,
		FractionNumerator:     2,
		FractionDenominator:   3,
	}
}

// ComputeVerdict derives the parole date and eligibility flag for a sentence
// record as of the given date.
//
// The sentence length is measured in whole months. The parole point is
// ceil(fraction × totalMonths) months after the sentence start, so an inmate
// is never eligible earlier than the exact fraction. Eligible is true iff
// asOf is on or after the parole date and the conduct points meet the
// threshold.
func ComputeVerdict(rec *models.SentenceRecord, asOf time.Time, p Policy) (*models.EligibilityVerdict, error) {
	if !rec.SentenceEnd.After(rec.SentenceStart) {
		return nil, fmt.Errorf("%w: sentence end %s is not after start %s",
			common.ErrInvalidSentence, rec.SentenceEnd.Format(time.DateOnly), rec.SentenceStart.Format(time.DateOnly))
	}
	if rec.ConductPoints < 0 {
		return nil, fmt.Errorf("%w: negative conduct points %d", common.ErrInvalidSentence, rec.ConductPoints)
	}
	if p.FractionNumerator <= 0 || p.FractionDenominator <= 0 || p.FractionNumerator > p.FractionDenominator {
		return nil, fmt.Errorf("%w: invalid parole fraction %d/%d",
			common.ErrInvalidSentence, p.FractionNumerator, p.FractionDenominator)
	}

	totalMonths := monthsBetween(rec.SentenceStart, rec.SentenceEnd)
	paroleMonths := ceilDiv(p.FractionNumerator*totalMonths, p.FractionDenominator)
	paroleDate := rec.SentenceStart.AddDate(0, paroleMonths, 0)

	eligible := !asOf.Before(paroleDate) && rec.ConductPoints >= p.ConductPointThreshold

	return &models.EligibilityVerdict{
		InmateID:              rec.InmateID,
		ParoleDate:            paroleDate,
		DurationToParole:      splitMonths(paroleMonths),
		DurationParoleToEnd:   splitMonths(totalMonths - paroleMonths),
		ConductPoints:         rec.ConductPoints,
		ConductPointThreshold: p.ConductPointThreshold,
		Eligible:              eligible,
	}, nil
}

// monthsBetween counts the whole calendar months from a to b. A partial
// trailing month is not counted.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func splitMonths(m int) models.YearsMonths {
	return models.YearsMonths{Years: m / 12, Months: m % 12}
}
