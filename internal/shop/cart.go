package shop

import "github.com/studyhall/lesson-booking-service/internal/model"

// CartLine aggregates the chosen quantity for one lesson. Subject, location
// and price are snapshots taken when the line was created and are only used
// for display.
type CartLine struct {
	LessonID int64
	Subject  string
	Location string
	Price    float64
	Quantity int
}

// Cart holds at most one line per lesson, in the order lessons were first
// added. A line never sits at quantity zero: it is removed instead.
type Cart struct {
	order []int64
	lines map[int64]*CartLine
}

func NewCart() *Cart {
	return &Cart{lines: make(map[int64]*CartLine)}
}

func (c *Cart) Empty() bool {
	return len(c.order) == 0
}

// Lines returns a snapshot of the cart in add order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Total is the sum of price times quantity across all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (c *Cart) line(id int64) *CartLine {
	return c.lines[id]
}

func (c *Cart) add(l model.Lesson) *CartLine {
	line := &CartLine{
		LessonID: l.ID,
		Subject:  l.Subject,
		Location: l.Location,
		Price:    l.Price,
		Quantity: 1,
	}
	c.order = append(c.order, l.ID)
	c.lines[l.ID] = line
	return line
}

func (c *Cart) remove(id int64) {
	if _, ok := c.lines[id]; !ok {
		return
	}
	delete(c.lines, id)
	for i, lid := range c.order {
		if lid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
