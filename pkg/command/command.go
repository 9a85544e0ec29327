// Package command defines the movement command exchanged between an operator and the
// rover, and its self-delimiting wire frame.
package command

import "fmt"

// Vector2 is a planar vector.
type Vector2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// MovementCommand is the desired planar velocity and yaw rate of the vehicle.
// Each component is nominally in [-1, 1]; the range is enforced by the drive, not here.
type MovementCommand struct {
	Translate Vector2 `json:"translate"`
	Rotate    float32 `json:"rotate"`
}

// Stop returns the canonical stop command.
func Stop() MovementCommand {
	return MovementCommand{}
}

// IsStop reports whether m requests no movement at all.
func (m MovementCommand) IsStop() bool {
	return m == Stop()
}

func (m MovementCommand) String() string {
	return fmt.Sprintf("translate=(%.2f,%.2f) rotate=%.2f", m.Translate.X, m.Translate.Y, m.Rotate)
}
