package playback

import "time"

// Settle waits for queued element actions to run.
func (c *Controller) Settle() bool {
	return c.bridge.idle(time.Second)
}
