// Package state implements the composite state of an ant: a primary activity
// plus optional combat and terrain modifiers that together gate which
// actions the ant may take.
package state

import "strings"

// Primary is the dominant activity axis.
type Primary string

const (
	Idle           Primary = "IDLE"
	Moving         Primary = "MOVING"
	Gathering      Primary = "GATHERING"
	FollowingTrail Primary = "FOLLOWING_TRAIL"
	Building       Primary = "BUILDING"
	DroppingOff    Primary = "DROPPING_OFF"
	Socializing    Primary = "SOCIALIZING"
	Mating         Primary = "MATING"
	Patrolling     Primary = "PATROLLING"
	Fighting       Primary = "FIGHTING"
	Dead           Primary = "DEAD"
)

// Combat is the combat modifier axis. The zero value means unset.
type Combat string

const (
	CombatUnset Combat = ""
	InCombat    Combat = "IN_COMBAT"
	OutOfCombat Combat = "OUT_OF_COMBAT"
)

// Terrain is the terrain modifier axis. The zero value means unset.
type Terrain string

const (
	TerrainUnset Terrain = ""
	Default      Terrain = "DEFAULT"
	InWater      Terrain = "IN_WATER"
	InMud        Terrain = "IN_MUD"
	OnRough      Terrain = "ON_ROUGH"
	OnSlippery   Terrain = "ON_SLIPPERY"
)

var validPrimary = map[Primary]bool{
	Idle: true, Moving: true, Gathering: true, FollowingTrail: true,
	Building: true, DroppingOff: true, Socializing: true, Mating: true,
	Patrolling: true, Fighting: true, Dead: true,
}

var validCombat = map[Combat]bool{
	InCombat: true, OutOfCombat: true,
}

var validTerrain = map[Terrain]bool{
	Default: true, InWater: true, InMud: true, OnRough: true, OnSlippery: true,
}

// Valid reports whether p is a known primary state.
func (p Primary) Valid() bool { return validPrimary[p] }

// Valid reports whether c is unset or a known combat modifier.
func (c Combat) Valid() bool { return c == CombatUnset || validCombat[c] }

// Valid reports whether t is unset or a known terrain modifier.
func (t Terrain) Valid() bool { return t == TerrainUnset || validTerrain[t] }

// Primaries lists every primary state in declaration order.
func Primaries() []Primary {
	return []Primary{Idle, Moving, Gathering, FollowingTrail, Building,
		DroppingOff, Socializing, Mating, Patrolling, Fighting, Dead}
}

// Separator joins the axes of a full state string.
const Separator = "_"

// Full is the composite value of all three axes.
type Full struct {
	Primary Primary `json:"primary"`
	Combat  Combat  `json:"combat,omitempty"`
	Terrain Terrain `json:"terrain,omitempty"`
}

// String renders the canonical form: primary, then combat if set, then
// terrain if set. Unset modifiers are simply absent.
func (f Full) String() string {
	parts := []string{string(f.Primary)}
	if f.Combat != CombatUnset {
		parts = append(parts, string(f.Combat))
	}
	if f.Terrain != TerrainUnset {
		parts = append(parts, string(f.Terrain))
	}
	return strings.Join(parts, Separator)
}

// Valid reports whether every axis holds an allowed value.
func (f Full) Valid() bool {
	return f.Primary.Valid() && f.Combat.Valid() && f.Terrain.Valid()
}
