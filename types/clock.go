package types

import "time"

func (systemClock) Today() (int, int, int) {
	now := time.Now().UTC()
	return now.Year(), int(now.Month()), now.Day()
}
