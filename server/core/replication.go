package core

import (
	"fmt"

	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
)

// Replicator carries authoritative state to observers. Track marks an
// entity for replication; Flush sends the current value of every tracked
// entity that still exists. Flush is only called on network ticks, so any
// number of simulation ticks of writes collapse into one message.
type Replicator interface {
	Track(entry *donburi.Entry, identity donburi.IComponentType) error
	Flush() error
}

// EsyncReplicator replicates full world snapshots through necs.
type EsyncReplicator struct {
	world donburi.World
}

// NewEsyncReplicator enables necs synchronisation on world.
func NewEsyncReplicator(world donburi.World) *EsyncReplicator {
	srvsync.UseEsync(world)
	return &EsyncReplicator{world: world}
}

func (r *EsyncReplicator) Track(entry *donburi.Entry, identity donburi.IComponentType) error {
	entity := entry.Entity()
	if err := srvsync.NetworkSync(r.world, &entity, netcomponents.NetRigidBody, identity); err != nil {
		return fmt.Errorf("network sync: %w", err)
	}
	return nil
}

func (r *EsyncReplicator) Flush() error {
	return srvsync.DoSync()
}
