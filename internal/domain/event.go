package domain

// Lifecycle event types published after a successful commit
const (
	EventLoanOriginated   = "loan.originated"
	EventPaymentCollected = "payment.collected"
	EventLoanForeclosed   = "loan.foreclosed"
	EventSeizureInitiated = "seizure.initiated"
	EventSeizureCompleted = "seizure.completed"
	EventOverdueSwept     = "overdue.swept"
)
