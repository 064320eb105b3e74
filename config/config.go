// Package config holds every tunable of the authority and the observer.
// Defaults are embedded; a YAML file and NETPHYS_* environment variables
// can override them.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "NETPHYS_"

// Simulation case used for projectiles spawned by Fire.
const (
	SimulationServer    = "server"
	SimulationPredicted = "predicted"
)

// Config holds all configuration values.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" envPrefix:"SIMULATION_"`
	Physics    PhysicsConfig    `yaml:"physics" envPrefix:"PHYSICS_"`
	Arena      ArenaConfig      `yaml:"arena" envPrefix:"ARENA_"`
	Player     BodyConfig       `yaml:"player" envPrefix:"PLAYER_"`
	Projectile ProjectileConfig `yaml:"projectile" envPrefix:"PROJECTILE_"`
	Force      ForceConfig      `yaml:"force" envPrefix:"FORCE_"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle" envPrefix:"LIFECYCLE_"`
	Server     ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
	Observer   ObserverConfig   `yaml:"observer" envPrefix:"OBSERVER_"`
}

// SimulationConfig contains the two fixed rates of the system.
type SimulationConfig struct {
	TickRate        int `yaml:"tick_rate" env:"TICK_RATE"`                 // Fixed simulation ticks per second
	NetworkTickRate int `yaml:"network_tick_rate" env:"NETWORK_TICK_RATE"` // Replication samples per second (coarser)
}

// PhysicsConfig contains integrator parameters shared by both roles.
type PhysicsConfig struct {
	Gravity  Vec3    `yaml:"gravity" env:"GRAVITY"`
	Friction float64 `yaml:"friction" env:"FRICTION"`   // Fraction of contact slip removed per tick, 0..1
	CellSize int     `yaml:"cell_size" env:"CELL_SIZE"` // Broad-phase cell size in world units
	Extent   float64 `yaml:"extent" env:"EXTENT"`       // Side of the square broad-phase area centred on the origin
}

// ArenaConfig describes the static floor. Path, when set, names a TMX map
// (a file, or builtin/<name>.tmx) whose Floor/PlayerSpawn object groups
// replace the single slab below.
type ArenaConfig struct {
	Path          string `yaml:"path" env:"PATH"`
	FloorSize     Vec3   `yaml:"floor_size" env:"FLOOR_SIZE"`
	FloorPosition Vec3   `yaml:"floor_position" env:"FLOOR_POSITION"`
}

// BodyConfig contains the spawn parameters of a ball.
type BodyConfig struct {
	SpawnPosition        Vec3    `yaml:"spawn_position" env:"SPAWN_POSITION"`
	Radius               float64 `yaml:"radius" env:"RADIUS"`
	Restitution          float64 `yaml:"restitution" env:"RESTITUTION"`
	Mass                 float64 `yaml:"mass" env:"MASS"`
	InitialTorqueImpulse Vec3    `yaml:"initial_torque_impulse" env:"INITIAL_TORQUE_IMPULSE"`
}

// ProjectileConfig extends BodyConfig with the fire-time velocity and the
// deployment-wide simulation case.
type ProjectileConfig struct {
	BodyConfig `yaml:",inline"`

	Simulation           string `yaml:"simulation" env:"SIMULATION"` // "server" or "predicted"
	SpawnVelocity        Vec3   `yaml:"spawn_velocity" env:"SPAWN_VELOCITY"`
	SpawnAngularVelocity Vec3   `yaml:"spawn_angular_velocity" env:"SPAWN_ANGULAR_VELOCITY"`
}

// ForceConfig is the impulse applied by a Force command.
type ForceConfig struct {
	Impulse       Vec3 `yaml:"impulse" env:"IMPULSE"`
	TorqueImpulse Vec3 `yaml:"torque_impulse" env:"TORQUE_IMPULSE"`
}

// LifecycleConfig contains the elimination rule.
type LifecycleConfig struct {
	EliminationY float64 `yaml:"elimination_y" env:"ELIMINATION_Y"` // Entities below this height are despawned
}

// ServerConfig contains authority-only settings.
type ServerConfig struct {
	Port                 uint `yaml:"port" env:"PORT"`
	CommandQueueCapacity int  `yaml:"command_queue_capacity" env:"COMMAND_QUEUE_CAPACITY"`
	DespawnOnDisconnect  bool `yaml:"despawn_on_disconnect" env:"DESPAWN_ON_DISCONNECT"`
}

// ObserverConfig contains observer-only settings.
type ObserverConfig struct {
	ServerAddress  string           `yaml:"server_address" env:"SERVER_ADDRESS"`
	SnapshotBuffer int              `yaml:"snapshot_buffer" env:"SNAPSHOT_BUFFER"`
	Correction     CorrectionConfig `yaml:"correction" envPrefix:"CORRECTION_"`
}

// CorrectionConfig controls how predicted bodies converge on a new sample.
type CorrectionConfig struct {
	BlendSeconds float64 `yaml:"blend_seconds" env:"BLEND_SECONDS"`
	SnapDistance float64 `yaml:"snap_distance" env:"SNAP_DISTANCE"` // Errors larger than this are snapped, not blended
}

// Default returns the embedded defaults.
func Default() *Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return &c
}

// Load builds the configuration from the embedded defaults, the optional
// YAML file at path and the environment, in that order.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first inconsistent value.
func (c *Config) Validate() error {
	switch {
	case c.Simulation.TickRate <= 0:
		return errors.New("config: simulation.tick_rate must be positive")
	case c.Simulation.NetworkTickRate <= 0:
		return errors.New("config: simulation.network_tick_rate must be positive")
	case c.Simulation.NetworkTickRate > c.Simulation.TickRate:
		return fmt.Errorf("config: network_tick_rate %d exceeds tick_rate %d",
			c.Simulation.NetworkTickRate, c.Simulation.TickRate)
	case c.Simulation.TickRate%c.Simulation.NetworkTickRate != 0:
		return fmt.Errorf("config: tick_rate %d is not a multiple of network_tick_rate %d",
			c.Simulation.TickRate, c.Simulation.NetworkTickRate)
	case c.Physics.CellSize <= 0:
		return errors.New("config: physics.cell_size must be positive")
	case c.Physics.Extent <= 0:
		return errors.New("config: physics.extent must be positive")
	case c.Player.Radius <= 0 || c.Projectile.Radius <= 0:
		return errors.New("config: body radius must be positive")
	case c.Player.Mass <= 0 || c.Projectile.Mass <= 0:
		return errors.New("config: body mass must be positive")
	case c.Projectile.Simulation != SimulationServer && c.Projectile.Simulation != SimulationPredicted:
		return fmt.Errorf("config: projectile.simulation %q is not %q or %q",
			c.Projectile.Simulation, SimulationServer, SimulationPredicted)
	case c.Server.CommandQueueCapacity <= 0:
		return errors.New("config: server.command_queue_capacity must be positive")
	case c.Observer.SnapshotBuffer <= 0:
		return errors.New("config: observer.snapshot_buffer must be positive")
	}
	return nil
}

// FixedDelta is the simulation tick in seconds.
func (c *Config) FixedDelta() float64 {
	return 1 / float64(c.Simulation.TickRate)
}

// NetworkPeriod is the interval between two replication samples in seconds.
func (c *Config) NetworkPeriod() float64 {
	return 1 / float64(c.Simulation.NetworkTickRate)
}

// NetworkEvery is the number of simulation ticks per replication sample.
// Validate guarantees the division is exact.
func (c *Config) NetworkEvery() int {
	n := c.Simulation.TickRate / c.Simulation.NetworkTickRate
	if n < 1 {
		n = 1
	}
	return n
}
