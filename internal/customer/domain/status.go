package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status is the closed customer lifecycle enum. Rows written before the
// enum existed carry free-form strings; legacyStatuses maps every known
// spelling onto one value.
type Status string

const (
	StatusActive  Status = "active"
	StatusUnpaid  Status = "unpaid"
	StatusOff     Status = "inactive"
	StatusPending Status = "pending"
)

var legacyStatuses = map[string]Status{
	"active":      StatusActive,
	"aktif":       StatusActive,
	"inactive":    StatusOff,
	"off":         StatusOff,
	"nonaktif":    StatusOff,
	"unpaid":      StatusUnpaid,
	"belum bayar": StatusUnpaid,
	"belum_bayar": StatusUnpaid,
	"pending":     StatusPending,
}

var statusLabels = map[Status]string{
	StatusActive:  "Aktif",
	StatusUnpaid:  "Belum Bayar",
	StatusOff:     "Off",
	StatusPending: "Pending",
}

// ParseStatus accepts the canonical values and every legacy spelling.
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := legacyStatuses[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the Indonesian display name used in reports.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Scan normalizes legacy rows. Unrecognized values read as pending so they
// never count as paying customers.
func (s *Status) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = StatusPending
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported status type %T", value)
	}

	status, err := ParseStatus(raw)
	if err != nil {
		*s = StatusPending
		return nil
	}
	*s = status
	return nil
}

func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return string(s), nil
}

// PaymentTarget names the party collecting the customer's payment.
type PaymentTarget string

const (
	PaymentTargetWasa   PaymentTarget = "Wasa"
	PaymentTargetKantor PaymentTarget = "Kantor"
)

// ParsePaymentTarget treats an empty value as Wasa.
func ParsePaymentTarget(raw string) (PaymentTarget, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "wasa":
		return PaymentTargetWasa, nil
	case "kantor", "office":
		return PaymentTargetKantor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentTarget, raw)
	}
}

// IsKantor reports whether revenue lands in the office bucket. Anything
// else, including an unset target, belongs to Wasa.
func (t PaymentTarget) IsKantor() bool {
	return strings.EqualFold(strings.TrimSpace(string(t)), string(PaymentTargetKantor))
}

// Normalized returns the canonical spelling of the bucket t falls into.
func (t PaymentTarget) Normalized() PaymentTarget {
	if t.IsKantor() {
		return PaymentTargetKantor
	}
	return PaymentTargetWasa
}
