package netcomponents

import "github.com/yohamta/donburi"

// SessionID identifies one observer connection for the lifetime of that
// connection. The authority assigns it on connect.
type SessionID uint64

// NoSession marks an identity tag whose session has disconnected.
const NoSession SessionID = 0

// NetSessionData binds a player entity to the session that owns it.
type NetSessionData struct {
	Session SessionID
}

var NetSession = donburi.NewComponentType[NetSessionData]()

// ProjectileOwnerData binds a projectile to the session whose Fire
// command created it. Force commands only reach projectiles of the sender.
type ProjectileOwnerData struct {
	Session SessionID
}

var ProjectileOwner = donburi.NewComponentType[ProjectileOwnerData]()
