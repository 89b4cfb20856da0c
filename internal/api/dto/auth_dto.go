package dto

// SwitchRoleRequest payload for the switch-role operation.
type SwitchRoleRequest struct {
	RequestedRole string `json:"requestedRole"`
}

// Envelope is the uniform response shape. Business failures travel as
// status "error" inside a 200 response; infrastructure failures carry an
// elevated HTTP status with the same shape.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SwitchRoleData is the success payload of a completed switch.
type SwitchRoleData struct {
	Username   string   `json:"username"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	ActiveRole string   `json:"activeRole"`
	Roles      []string `json:"roles"`
	Token      string   `json:"token"`
	Email      string   `json:"email"`
}

// SessionData describes the caller's current principal view.
type SessionData struct {
	Email     string   `json:"email"`
	SessionID string   `json:"sessionId,omitempty"`
	Roles     []string `json:"roles"`
	Kind      string   `json:"kind"`
}

// Success builds a success envelope.
func Success(message string, data interface{}) Envelope {
	return Envelope{Status: "success", Message: message, Data: data}
}

// Error builds an error envelope.
func Error(message string, errs map[string]string) Envelope {
	return Envelope{Status: "error", Message: message, Errors: errs}
}
