package dialer

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	roomNamePrefix = "outbound-"
	identityPrefix = "caller-"
)

// NameGenerator derives room names and participant identities for attempts
// that did not supply their own. Each attempt gets one disambiguator built
// from the destination digits, the current unix time and a process-wide
// counter; room and identity share it so a room can always be traced back
// to the participant that was dialed into it.
type NameGenerator struct {
	now func() time.Time
	seq atomic.Uint64
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{now: time.Now}
}

func (g *NameGenerator) disambiguator(phoneNumber string) string {
	digits := strings.TrimPrefix(phoneNumber, "+")
	return fmt.Sprintf("%s-%d-%d", digits, g.now().Unix(), g.seq.Add(1))
}

// Names returns a generated room name and participant identity for the
// given destination, sharing one disambiguator.
func (g *NameGenerator) Names(phoneNumber string) (roomName, identity string) {
	d := g.disambiguator(phoneNumber)
	return roomNamePrefix + d, identityPrefix + d
}
