package dto

type LessonFilters struct {
	SearchQuery string
	Location    string
	SortBy      string // subject|location|price|spaces
	SortDir     string // asc|desc
	Page        int
	PageSize    int
}

type MovementFilters struct {
	LessonID     int64
	MovementType string
	Page         int
	PageSize     int
}
