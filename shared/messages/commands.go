package messages

// Fire asks the authority to spawn one projectile owned by the sender.
type Fire struct{}

// Force asks the authority to apply the configured impulse to every live
// projectile owned by the sender.
type Force struct{}
