package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldChatID      = "chat_id"
	FieldCommand     = "command"
	FieldSheet       = "sheet"
	FieldRowRef      = "row_ref"
	FieldCategory    = "category"
	FieldVendor      = "vendor"
	FieldAmountCents = "amount_cents"
	FieldEntityType  = "entity_type"
	FieldReceiptURL  = "receipt_url"
	FieldYear        = "year"
	FieldDuration    = "duration_ms"
	FieldStatusCode  = "status_code"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentDispatcher = "dispatcher"
	ComponentIntake     = "intake"
	ComponentCategorize = "categorize"
	ComponentOCR        = "ocr"
	ComponentLedger     = "ledger"
	ComponentReceipts   = "receipts"
	ComponentTelegram   = "telegram"
)

// Operations defines standard operation names
const (
	OpAppend   = "append"
	OpMirror   = "mirror"
	OpScan     = "scan"
	OpUpdate   = "update"
	OpList     = "list"
	OpSend     = "send"
	OpUpload   = "upload"
	OpDetect   = "detect"
	OpComplete = "complete"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
