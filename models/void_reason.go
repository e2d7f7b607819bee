package models

// VoidReason is the enumerated justification for voiding a stay or cancelling a reservation.
type VoidReason string

const (
	VoidGuestRequest   VoidReason = "guest-request"
	VoidNoShow         VoidReason = "no-show"
	VoidWrongEntry     VoidReason = "wrong-entry"
	VoidDuplicateEntry VoidReason = "duplicate-entry"
	VoidPaymentIssue   VoidReason = "payment-issue"
	VoidOther          VoidReason = "other"
)

// VoidReasons lists the accepted reasons in display order.
func VoidReasons() []VoidReason {
	return []VoidReason{VoidGuestRequest, VoidNoShow, VoidWrongEntry, VoidDuplicateEntry, VoidPaymentIssue, VoidOther}
}

func (r VoidReason) Valid() bool {
	for _, v := range VoidReasons() {
		if r == v {
			return true
		}
	}
	return false
}
