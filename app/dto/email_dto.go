package dto

// SendResultEntry identifies one ticket within a bulk send outcome
type SendResultEntry struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	TicketCode string `json:"ticket_code"`
	Error      string `json:"error,omitempty"`
}

// SendAllResult aggregates the outcome of a bulk email dispatch
type SendAllResult struct {
	Total       int               `json:"total"`
	Success     int               `json:"success"`
	Failed      int               `json:"failed"`
	SuccessList []SendResultEntry `json:"success_list"`
	FailedList  []SendResultEntry `json:"failed_list"`
}
