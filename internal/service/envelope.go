package service

// FieldError describes one invalid or missing request field.
type FieldError struct {
	Field   string
	Message string
}

// Envelope is the uniform result wrapper returned by every orchestrator
// operation. Exactly one of Data or Errors is populated; partial results
// still arrive with Success=true and a qualifying Message.
type Envelope struct {
	Data    any
	Message string
	Errors  []FieldError
	Success bool
}

// OK wraps a successful result.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail wraps a failure message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// Invalid wraps validation errors.
func Invalid(errs []FieldError) Envelope {
	return Envelope{Success: false, Message: "request validation failed", Errors: errs}
}
