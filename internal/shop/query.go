package shop

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/studyhall/lesson-booking-service/internal/model"
)

type SortField string

const (
	SortBySubject  SortField = "subject"
	SortByLocation SortField = "location"
	SortByPrice    SortField = "price"
	SortBySpaces   SortField = "spaces"
)

type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subject":
		return SortBySubject, nil
	case "location":
		return SortByLocation, nil
	case "price":
		return SortByPrice, nil
	case "spaces":
		return SortBySpaces, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Filter keeps the lessons whose subject, location, or the decimal string
// forms of price and spaces contain the term, case-insensitively. A blank
// term keeps everything. Input order is preserved.
func Filter(lessons []model.Lesson, term string) []model.Lesson {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]model.Lesson(nil), lessons...)
	}

	out := make([]model.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if strings.Contains(strings.ToLower(l.Subject), term) ||
			strings.Contains(strings.ToLower(l.Location), term) ||
			strings.Contains(strconv.FormatFloat(l.Price, 'f', -1, 64), term) ||
			strings.Contains(strconv.Itoa(l.Spaces), term) {
			out = append(out, l)
		}
	}
	return out
}

// Sort orders a copy of the lessons by the given field. String fields
// compare case-insensitively, numeric fields numerically. The sort is
// stable, so ties keep their input order, and descending merely flips the
// comparator sign.
func Sort(lessons []model.Lesson, field SortField, dir SortDirection) []model.Lesson {
	out := append([]model.Lesson(nil), lessons...)

	sign := 1
	if dir == Descending {
		sign = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compareLessons(out[i], out[j], field)*sign < 0
	})
	return out
}

// Query applies the filter first, then sorts the filtered result. Sorting
// never changes which lessons pass the filter.
func Query(lessons []model.Lesson, term string, field SortField, dir SortDirection) []model.Lesson {
	return Sort(Filter(lessons, term), field, dir)
}

func compareLessons(a, b model.Lesson, field SortField) int {
	switch field {
	case SortByPrice:
		return compareFloats(a.Price, b.Price)
	case SortBySpaces:
		return compareFloats(float64(a.Spaces), float64(b.Spaces))
	case SortByLocation:
		return strings.Compare(strings.ToLower(a.Location), strings.ToLower(b.Location))
	default:
		return strings.Compare(strings.ToLower(a.Subject), strings.ToLower(b.Subject))
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
