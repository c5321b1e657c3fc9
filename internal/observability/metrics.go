package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MTransactions        MetricKey = "payment_transactions_total"
	MTransactionDuration MetricKey = "payment_transaction_duration_seconds"
	MAuditEvents         MetricKey = "payment_audit_events_total"
	MEventPublishFailed  MetricKey = "payment_event_publish_failed_total"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
)
