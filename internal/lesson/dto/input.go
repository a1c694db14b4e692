package dto

type CreateLessonInput struct {
	Subject  string
	Location string
	Price    float64
	Spaces   int
	Icon     string
	ImageURL string
}

type UpdateSpacesInput struct {
	LessonID      int64
	Spaces        int    // absolute new value, not a delta
	Reason        string
	ReferenceType string // 'client_sync', 'manual_adjustment'
	ReferenceID   string
}
