package state

// Action is something an ant may attempt this frame.
type Action string

const (
	ActMove        Action = "move"
	ActGather      Action = "gather"
	ActBuild       Action = "build"
	ActAttack      Action = "attack"
	ActSocialize   Action = "socialize"
	ActMate        Action = "mate"
	ActPatrol      Action = "patrol"
	ActDropOff     Action = "drop_off"
	ActFollowTrail Action = "follow_trail"
)

// Actions lists the closed set of actions in a stable order.
func Actions() []Action {
	return []Action{ActMove, ActGather, ActBuild, ActAttack, ActSocialize,
		ActMate, ActPatrol, ActDropOff, ActFollowTrail}
}

// rule decides whether an action is allowed for a composite state.
type rule func(f Full) bool

var rules = map[Action]rule{
	ActMove: func(f Full) bool {
		return f.Primary != Building && f.Terrain != OnSlippery
	},
	ActGather: func(f Full) bool {
		return f.Primary != Building
	},
	ActBuild: func(f Full) bool {
		return f.Combat != InCombat
	},
	ActAttack: func(f Full) bool {
		return f.Combat == InCombat
	},
	ActSocialize: func(f Full) bool {
		return f.Combat != InCombat
	},
	ActMate: func(f Full) bool {
		return f.Combat != InCombat && f.Terrain != InWater
	},
	ActPatrol: func(f Full) bool {
		return f.Primary != Building
	},
	ActDropOff: func(f Full) bool {
		return f.Primary != Building
	},
	ActFollowTrail: func(f Full) bool {
		return f.Primary != Building && f.Terrain != OnSlippery
	},
}

// Allowed evaluates the rule table. Dead ants can do nothing and unknown
// actions are never allowed.
func Allowed(f Full, a Action) bool {
	if f.Primary == Dead {
		return false
	}
	r, ok := rules[a]
	if !ok {
		return false
	}
	return r(f)
}
