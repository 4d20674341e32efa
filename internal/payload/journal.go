package payload

type CreateJournalRequest struct {
	Entry string `json:"entry" validate:"required"`
	Mood  string `json:"mood"  validate:"omitempty"`
}

type AISupportRequest struct {
	JournalEntry string `json:"journalEntry" validate:"required"`
}

type AISupportResponse struct {
	SupportiveFeedback string `json:"supportiveFeedback"`
}
