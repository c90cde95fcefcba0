package junction

import (
	"github.com/sarchlab/crossroads/signal"
	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/topology"
	"github.com/sarchlab/crossroads/vehicle"
)

// VehicleState is what a drawing layer needs to know about one vehicle.
type VehicleState struct {
	ID          vehicle.ID      `json:"id"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Axis        topology.Axis   `json:"axis"`
	Lane        topology.LaneID `json:"lane"`
	Maneuvering bool            `json:"maneuvering"`
}

// A Snapshot is the read-only state of the junction after a tick.
type Snapshot struct {
	Tick       uint64                 `json:"tick"`
	Time       sim.VTimeInSec         `json:"time"`
	Phase      signal.Phase           `json:"phase"`
	Controller signal.ControllerState `json:"controller"`
	QueueDepth signal.QueueDepth      `json:"queue_depth"`
	Pending    int                    `json:"pending"`
	Vehicles   []VehicleState         `json:"vehicles"`
}

func makeVehicleStates(vehicles []*vehicle.Vehicle) []VehicleState {
	states := make([]VehicleState, 0, len(vehicles))

	for _, v := range vehicles {
		states = append(states, VehicleState{
			ID:          v.ID,
			X:           v.Position.X,
			Y:           v.Position.Y,
			Axis:        v.Axis,
			Lane:        v.Lane,
			Maneuvering: v.Maneuvering(),
		})
	}

	return states
}
