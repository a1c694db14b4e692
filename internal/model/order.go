package model

type Order struct {
	BaseModel
	Name  string      `db:"name" json:"name"`
	Phone string      `db:"phone" json:"phone"`
	Email string      `db:"email" json:"email"`
	Total float64     `db:"total" json:"total"`
	Lines []OrderLine `db:"-" json:"lines"` // Stored in order_lines table
}

type OrderLine struct {
	OrderID  string  `db:"order_id" json:"-"`
	LessonID int64   `db:"lesson_id" json:"lesson_id"`
	Subject  string  `db:"subject" json:"subject"`
	Price    float64 `db:"price" json:"price"`
	Quantity int     `db:"quantity" json:"quantity"`
}
