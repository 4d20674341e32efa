package payload

type SaveMoodRequest struct {
	Mood int `json:"mood" validate:"required,min=1,max=5"`
}
