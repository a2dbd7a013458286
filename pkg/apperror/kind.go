package apperror

type Kind string

var (
	// --- Request ---
	InvalidInput   Kind = "invalid_input"
	AlreadyExists  Kind = "already_exist"
	NotFound       Kind = "not_found"
	Conflict       Kind = "conflict"
	Unauthorised   Kind = "unauthorised"
	Forbidden      Kind = "forbidden"
	RequestTimeout Kind = "request_timeout"

	// --- Pipeline ---
	InvalidSchedule   Kind = "invalid_schedule"
	InvalidEvent      Kind = "invalid_event"
	PublishFailed     Kind = "publish_failed"
	TransactionFailed Kind = "transaction_failed"

	// --- Infra ---
	Internal    Kind = "internal"
	Dependency  Kind = "dependency_failure"
	DatabaseErr Kind = "database_error"
)
