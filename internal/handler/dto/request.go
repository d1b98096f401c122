package dto

// CreateAgentRequest represents the request body for POST /agents.
type CreateAgentRequest struct {
	Name string `json:"name"`
}

// CreateDocTypeRequest represents the request body for POST /doctypes.
type CreateDocTypeRequest struct {
	Name string `json:"name"`
}

// StartTransactionRequest represents the request body for POST /transactions.
type StartTransactionRequest struct {
	AgentName string `json:"agentName"`
	TxID      string `json:"txId"`
	DocType   string `json:"typeOfDoc"`
	StartTime string `json:"startTime"`
	Status    string `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Date      string `json:"date,omitempty"`
}

// EndTransactionRequest represents the request body for POST /transactions/{id}/end.
type EndTransactionRequest struct {
	EndTime string  `json:"endTime"`
	Status  string  `json:"status,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// UpdateTransactionRequest represents the request body for PATCH /transactions/{id}.
// All fields are optional; absent fields are left untouched.
type UpdateTransactionRequest struct {
	Status    *string `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	DocType   *string `json:"typeOfDoc,omitempty"`
	TxID      *string `json:"txId,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}
