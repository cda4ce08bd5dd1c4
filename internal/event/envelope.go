package event

import "fmt"

// Kind discriminates transaction records
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// CarriesAmount reports whether records of this kind carry their own amount.
// Dispute, resolve and chargeback act on the amount of the referenced transaction.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// ParseKind maps the wire name to a Kind. Matching is exact and case-sensitive.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown transaction type %q", s)
}

// Envelope wraps a parsed record with its position in the input stream
type Envelope struct {
	// Zero-based position among data rows
	Sequence int64

	// Line number in the source file (header is line 1)
	Line int

	Tx Transaction
}
