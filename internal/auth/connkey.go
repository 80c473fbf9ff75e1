package auth

import (
	"math/rand"
	"strconv"
)

// NewConnectionKey returns a random 6-digit key. The streaming server uses it
// to tell apart simultaneous viewers of the same monitor.
func NewConnectionKey() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
