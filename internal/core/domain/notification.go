package domain

// NotificationEvent identifies the kind of event a notification describes.
type NotificationEvent string

const (
	EventAccountCreated     NotificationEvent = "ACCOUNT_CREATED"
	EventDeposit            NotificationEvent = "DEPOSIT"
	EventWithdrawal         NotificationEvent = "WITHDRAWAL"
	EventTransferIn         NotificationEvent = "TRANSFER_IN"
	EventTransferOut        NotificationEvent = "TRANSFER_OUT"
	EventChequeBookApproved NotificationEvent = "CHEQUE_BOOK_APPROVED"
	EventChequeBookRejected NotificationEvent = "CHEQUE_BOOK_REJECTED"
	EventChequeDeposited    NotificationEvent = "CHEQUE_DEPOSITED"
	EventChequeCleared      NotificationEvent = "CHEQUE_CLEARED"
	EventChequeBounced      NotificationEvent = "CHEQUE_BOUNCED"
	EventAccountBlocked     NotificationEvent = "ACCOUNT_BLOCKED"
	EventAccountUnblocked   NotificationEvent = "ACCOUNT_UNBLOCKED"
)

// NotificationRequest is what the core hands to the dispatcher. Delivery is
// fire-and-forget; the core never depends on it succeeding.
type NotificationRequest struct {
	AccountNumber string            `json:"accountNumber"`
	EventType     NotificationEvent `json:"eventType"`
	Payload       map[string]string `json:"payload,omitempty"`
}
