package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldPeriod     = "period"
	FieldMemberID   = "member_id"
	FieldLocationID = "location_id"
	FieldAmountWon  = "amount_won"
	FieldGroup      = "group"
	FieldEntryCount = "entry_count"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentEngine     = "engine"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentMirror     = "mirror"
	ComponentCache      = "cache"
	ComponentSettlement = "settlement"
)

// Operations defines standard operation names
const (
	OpCompute  = "compute"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSnapshot = "snapshot"
	OpMirror   = "mirror"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
