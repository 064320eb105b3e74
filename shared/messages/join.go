package messages

import "github.com/automoto/netphys/shared/netcomponents"

// Welcome is sent by the authority to a newly connected observer.
type Welcome struct {
	Session         netcomponents.SessionID
	TickRate        int
	NetworkTickRate int
}
