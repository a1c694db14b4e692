package dto

type SubmitOrderInput struct {
	Name  string
	Phone string
	Email string
	Lines []SubmitOrderLine
}

type SubmitOrderLine struct {
	LessonID int64
	Quantity int
}
