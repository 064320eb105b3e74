package core

import (
	"log"

	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/yohamta/donburi"
)

// eliminate despawns every body whose replicated height is below the
// elimination threshold. It runs after the writer, so the height it reads
// is the one of this tick.
func (s *Server) eliminate() {
	threshold := s.cfg.Lifecycle.EliminationY

	var doomed []*donburi.Entry
	replicatedBodies.Each(s.world, func(entry *donburi.Entry) {
		sim, err := netcomponents.NetRigidBody.Get(entry).Simulation()
		if err != nil {
			return
		}
		translation, _ := sim.Pose()
		if translation.Y() < threshold {
			doomed = append(doomed, entry)
		}
	})

	for _, entry := range doomed {
		log.Printf("[server] entity %v eliminated below y=%v", entry.Entity(), threshold)
		s.despawn(entry)
	}
}

// despawn removes entry from physics and the world. The next flush no
// longer carries it.
func (s *Server) despawn(entry *donburi.Entry) {
	if entry.HasComponent(netcomponents.NetSession) {
		session := netcomponents.NetSession.Get(entry).Session
		if e, ok := s.players[session]; ok && e == entry.Entity() {
			delete(s.players, session)
		}
	}
	s.space.Detach(entry)
	s.world.Remove(entry.Entity())
}
