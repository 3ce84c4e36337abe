package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/command"
	"github.com/talgya/antcolony/internal/world"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownAnt     = errors.New("unknown ant")
	ErrNotInRoster    = errors.New("ant is not under the queen's command")
)

// CommandRequest is an order issued to the colony from outside the
// simulation. Without Ant the queen broadcasts it; with Ant it goes to
// that one ant regardless of range.
type CommandRequest struct {
	Type string        `json:"type"` // move, gather, build, defend, rally
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
	Ant  *agents.AntID `json:"ant,omitempty"`
}

// IssueCommand hands an order to the queen and returns how many ants
// received it.
func (c *Colony) IssueCommand(req CommandRequest) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := world.Point{X: req.X, Y: req.Y}
	var reached int

	if req.Ant != nil {
		a, ok := c.AntIndex[*req.Ant]
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownAnt, *req.Ant)
		}
		cmd, ok := buildCommand(req.Type, target)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Type)
		}
		if !c.Queen.CommandAnt(a, cmd) {
			return 0, fmt.Errorf("%w: %d", ErrNotInRoster, a.ID)
		}
		reached = 1
	} else {
		switch req.Type {
		case "move":
			reached = c.Queen.GatherAntsAt(req.X, req.Y)
		case "gather":
			reached = c.Queen.OrderGathering()
		case "build":
			reached = c.Queen.OrderBuilding()
		case "defend":
			reached = c.Queen.OrderDefense(target)
		case "rally":
			reached = c.Queen.EmergencyRally()
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Type)
		}
	}

	c.emit(Event{
		Second:      c.LastSecond,
		Description: fmt.Sprintf("The queen orders %s (%d ants)", req.Type, reached),
		Category:    "command",
		Meta:        map[string]any{"type": req.Type, "x": req.X, "y": req.Y, "reached": reached},
	})
	slog.Info("command issued", "type", req.Type, "reached", reached)
	return reached, nil
}

func buildCommand(kind string, target world.Point) (command.Command, bool) {
	switch kind {
	case "move":
		return command.NewMove(target.X, target.Y), true
	case "gather":
		return command.NewGather(), true
	case "build":
		return command.NewBuild(), true
	case "defend":
		return command.NewDefend(target), true
	default:
		return command.Command{}, false
	}
}
