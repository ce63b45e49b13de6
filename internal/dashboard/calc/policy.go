package calc

import "errors"

const basisPointsTotal = 10_000

var ErrInvalidProfitShare = errors.New("invalid_profit_share")

// ProfitShare splits combined gross revenue between Wasa and the office,
// in basis points. The split ignores which party collected the payment.
type ProfitShare struct {
	WasaBasisPoints   int64 `json:"wasa_basis_points"`
	OfficeBasisPoints int64 `json:"office_basis_points"`
}

func DefaultProfitShare() ProfitShare {
	return ProfitShare{WasaBasisPoints: 4000, OfficeBasisPoints: 6000}
}

func (p ProfitShare) Validate() error {
	if p.WasaBasisPoints < 0 || p.OfficeBasisPoints < 0 {
		return ErrInvalidProfitShare
	}
	if p.WasaBasisPoints+p.OfficeBasisPoints != basisPointsTotal {
		return ErrInvalidProfitShare
	}
	return nil
}

// Split returns both shares of gross. Wasa's share is rounded half up and
// the office takes the remainder, so the two always add back to gross.
func (p ProfitShare) Split(gross int64) (wasa, office int64) {
	if p.Validate() != nil {
		p = DefaultProfitShare()
	}
	wasa = (gross*p.WasaBasisPoints + basisPointsTotal/2) / basisPointsTotal
	return wasa, gross - wasa
}
