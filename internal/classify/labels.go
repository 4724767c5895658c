package classify

// Intent labels scored by the zero-shot model.
const (
	IntentGreeting       = "greeting"
	IntentProductQuery   = "product_query"
	IntentOrderStatus    = "order_status"
	IntentRefund         = "refund"
	IntentCancelOrder    = "cancel_order"
	IntentPasswordReset  = "password_reset"
	IntentAccountLogin   = "account_login"
	IntentBugReport      = "bug_report"
	IntentFeatureRequest = "feature_request"
	IntentComplaint      = "complaint"
	IntentPraise         = "praise"
	IntentQuestion       = "question"
)

// IntentLabels returns the candidate labels in the order they are sent to the
// model. Ties in ranking keep this order.
func IntentLabels() []string {
	return []string{
		IntentGreeting,
		IntentProductQuery,
		IntentOrderStatus,
		IntentRefund,
		IntentCancelOrder,
		IntentPasswordReset,
		IntentAccountLogin,
		IntentBugReport,
		IntentFeatureRequest,
		IntentComplaint,
		IntentPraise,
		IntentQuestion,
	}
}
