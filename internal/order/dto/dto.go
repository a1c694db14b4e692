package dto

type OrderFilters struct {
	Email    string
	Page     int
	PageSize int
}
