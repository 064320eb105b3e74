package protocol

import (
	"fmt"

	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetRigidBody    uint = 10
	SyncIDNetSession      uint = 11
	SyncIDProjectileOwner uint = 12
)

// RegisterComponents registers all replicated components with necs for
// serialization. Both roles must call it before any network operation.
//
// None of them use necs interpolation: rigid bodies are smoothed by the
// observer's own interpolation cache, identity tags are discrete.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetRigidBody,
		netcomponents.NetRigidBodyData{},
		netcomponents.NetRigidBody,
	); err != nil {
		return fmt.Errorf("register net rigid body: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDNetSession,
		netcomponents.NetSessionData{},
		netcomponents.NetSession,
	); err != nil {
		return fmt.Errorf("register net session: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDProjectileOwner,
		netcomponents.ProjectileOwnerData{},
		netcomponents.ProjectileOwner,
	); err != nil {
		return fmt.Errorf("register projectile owner: %w", err)
	}

	return nil
}
