package shop

import "github.com/studyhall/lesson-booking-service/internal/model"

// Catalog is the session's in-memory copy of the lesson list. Spaces on the
// held lessons are live values: only the reconciler operations on Session
// may change them.
type Catalog struct {
	order   []int64
	lessons map[int64]*model.Lesson
}

func NewCatalog(lessons []model.Lesson) *Catalog {
	c := &Catalog{
		order:   make([]int64, 0, len(lessons)),
		lessons: make(map[int64]*model.Lesson, len(lessons)),
	}
	for i := range lessons {
		l := lessons[i]
		if _, exists := c.lessons[l.ID]; exists {
			continue
		}
		c.order = append(c.order, l.ID)
		c.lessons[l.ID] = &l
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Lessons returns a snapshot in load order. Mutating the result does not
// touch the catalog.
func (c *Catalog) Lessons() []model.Lesson {
	out := make([]model.Lesson, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lessons[id])
	}
	return out
}

func (c *Catalog) Get(id int64) (model.Lesson, bool) {
	l, ok := c.lessons[id]
	if !ok {
		return model.Lesson{}, false
	}
	return *l, true
}

// lesson exposes the mutable entry to the reconciler.
func (c *Catalog) lesson(id int64) *model.Lesson {
	return c.lessons[id]
}
