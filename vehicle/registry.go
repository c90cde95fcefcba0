package vehicle

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/samber/lo"

	"github.com/sarchlab/crossroads/topology"
)

// ErrNotSpawnable is returned when a vehicle is requested in a lane that does
// not exist or does not accept new vehicles.
var ErrNotSpawnable = errors.New("lane does not accept new vehicles")

// ErrEntryBlocked is returned when the last vehicle in the lane is still too
// close to the spawn point.
var ErrEntryBlocked = errors.New("lane entry is blocked")

type slot struct {
	vehicle Vehicle
	live    bool
}

// Registry stores vehicles in a slot arena. Slots of removed vehicles are
// reused, but IDs never are.
type Registry struct {
	layout *topology.Layout
	rng    *rand.Rand

	slots  []slot
	free   []int
	index  map[ID]int
	nextID ID

	views [topology.NumLanes + 1][]int
}

// NewRegistry creates an empty registry. The rng draws the path of each new
// vehicle.
func NewRegistry(layout *topology.Layout, rng *rand.Rand) *Registry {
	return &Registry{
		layout: layout,
		rng:    rng,
		index:  make(map[ID]int),
		nextID: 1,
	}
}

// Spawn puts a new vehicle at the entry of a lane.
func (r *Registry) Spawn(laneID topology.LaneID, tick uint64) (ID, error) {
	lane, ok := r.layout.Lane(laneID)
	if !ok || !lane.IsSource() {
		return 0, ErrNotSpawnable
	}

	if r.entryBlocked(lane) {
		return 0, ErrEntryBlocked
	}

	path := PathStraight
	if lane.HasGatedRules() && r.rng.Intn(2) == 1 {
		path = PathTurn
	}

	v := Vehicle{
		ID:        r.nextID,
		Position:  lane.Spawn,
		Speed:     topology.BaseSpeed,
		Lane:      laneID,
		Axis:      lane.Axis(),
		Path:      path,
		SpawnedAt: tick,
	}
	r.nextID++

	r.store(v)

	return v.ID, nil
}

func (r *Registry) entryBlocked(lane *topology.Lane) bool {
	entry := lane.Progress(lane.Spawn)

	for i := range r.slots {
		s := &r.slots[i]
		if !s.live || s.vehicle.Lane != lane.ID {
			continue
		}

		if lane.Progress(s.vehicle.Position)-entry < topology.MinGap {
			return true
		}
	}

	return false
}

func (r *Registry) store(v Vehicle) {
	var i int

	if n := len(r.free); n > 0 {
		i = r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[i] = slot{vehicle: v, live: true}
	} else {
		i = len(r.slots)
		r.slots = append(r.slots, slot{vehicle: v, live: true})
	}

	r.index[v.ID] = i
}

// Remove deletes a vehicle. Removing an unknown vehicle does nothing.
func (r *Registry) Remove(id ID) {
	i, ok := r.index[id]
	if !ok {
		return
	}

	r.slots[i] = slot{}
	r.free = append(r.free, i)
	delete(r.index, id)
}

// Get returns a vehicle by ID. The pointer stays valid until the next Spawn.
func (r *Registry) Get(id ID) (*Vehicle, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}

	return &r.slots[i].vehicle, true
}

// Len returns the number of vehicles.
func (r *Registry) Len() int {
	return len(r.index)
}

// All returns every vehicle ordered by ID. The pointers stay valid until the
// next Spawn.
func (r *Registry) All() []*Vehicle {
	all := make([]*Vehicle, 0, len(r.index))

	for i := range r.slots {
		if r.slots[i].live {
			all = append(all, &r.slots[i].vehicle)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	return all
}

// Reindex rebuilds the per-lane views. Within a lane, the vehicle furthest
// along comes first.
func (r *Registry) Reindex() {
	for i := range r.views {
		r.views[i] = r.views[i][:0]
	}

	for i := range r.slots {
		s := &r.slots[i]
		if !s.live {
			continue
		}

		r.views[s.vehicle.Lane] = append(r.views[s.vehicle.Lane], i)
	}

	for _, lane := range r.layout.Lanes() {
		view := r.views[lane.ID]
		sort.SliceStable(view, func(a, b int) bool {
			va := &r.slots[view[a]].vehicle
			vb := &r.slots[view[b]].vehicle

			pa, pb := lane.Progress(va.Position), lane.Progress(vb.Position)
			if pa != pb {
				return pa > pb
			}

			return va.ID < vb.ID
		})
	}
}

// ByLane returns the vehicles of a lane in the order of the last Reindex,
// lead first. Vehicles removed or moved to another lane since then are left
// out.
func (r *Registry) ByLane(laneID topology.LaneID) []*Vehicle {
	if !laneID.Valid() {
		return nil
	}

	view := r.views[laneID]
	vehicles := make([]*Vehicle, 0, len(view))

	for _, i := range view {
		s := &r.slots[i]
		if !s.live || s.vehicle.Lane != laneID {
			continue
		}

		vehicles = append(vehicles, &s.vehicle)
	}

	return vehicles
}

// RemoveOutOfBounds deletes the vehicles that left the area and its margin,
// and returns their IDs.
func (r *Registry) RemoveOutOfBounds() []ID {
	removed := lo.FilterMap(r.slots, func(s slot, _ int) (ID, bool) {
		return s.vehicle.ID, s.live && !topology.InBounds(s.vehicle.Position)
	})

	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })

	for _, id := range removed {
		r.Remove(id)
	}

	return removed
}
