package session

import "time"

// SetClock replaces the controller's time source.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}
