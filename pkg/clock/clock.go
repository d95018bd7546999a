package clock

import "time"

// Local возвращает текущее время в часовом поясе салона
type Local struct {
	Location *time.Location
}

// NewLocal создает часы для указанного часового пояса
func NewLocal(loc *time.Location) *Local {
	if loc == nil {
		loc = time.Local
	}
	return &Local{Location: loc}
}

// Now возвращает текущее время
func (c *Local) Now() time.Time {
	return time.Now().In(c.Location)
}

// Fixed часы с зафиксированным временем для тестов
type Fixed struct {
	At time.Time
}

// Now возвращает зафиксированное время
func (c *Fixed) Now() time.Time {
	return c.At
}
