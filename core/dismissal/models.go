package dismissal

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type EventType string

const (
	BusArrival      EventType = "BUS_ARRIVAL"
	CarPickup       EventType = "CAR_PICKUP"
	Walker          EventType = "WALKER"
	Aftercare       EventType = "AFTERCARE"
	Athletics       EventType = "ATHLETICS"
	CounselorSummon EventType = "COUNSELOR_SUMMON"
)

type EventStatus string

const (
	StatusPending  EventStatus = "PENDING"
	StatusDeparted EventStatus = "DEPARTED"
)

// Event is one student's dismissal entry on the afternoon board.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	Status      EventStatus `json:"status"`
	StudentID   string      `json:"student_id"`
	StudentName string      `json:"student_name"`
	ParentName  null.String `json:"parent_name,omitempty"` // CAR_PICKUP
	BusNumber   null.String `json:"bus_number,omitempty"`  // BUS_ARRIVAL
	CreatedAt   time.Time   `json:"created_at"`            // UTC
	DepartedAt  null.Time   `json:"departed_at,omitempty"`
}

// Stats is the backend's daily rollup.
type Stats struct {
	Total    int               `json:"total"`
	Departed int               `json:"departed"`
	Pending  int               `json:"pending"`
	ByType   map[EventType]int `json:"by_type"`
}

// BusLoad is the rider-count indicator for one bus: riders still expected
// today summed against the bus's seat capacity.
type BusLoad struct {
	BusNumber string `json:"bus_number"`
	Riders    int    `json:"riders"`
	Capacity  int    `json:"capacity"`
}

func (bl BusLoad) Over() bool  { return bl.Riders > bl.Capacity }
func (bl BusLoad) Under() bool { return bl.Riders < bl.Capacity }

// LoadSummary sums pending bus riders per bus against the configured seat
// capacities. Buses with no riders today are omitted; an unknown bus gets
// capacity 0 and therefore flags over as soon as it has a rider.
func LoadSummary(events []Event, capacities map[string]int) []BusLoad {
	riders := make(map[string]int)
	var order []string
	for _, ev := range events {
		if ev.Type != BusArrival || !ev.BusNumber.Valid || ev.Status == StatusDeparted {
			continue
		}
		bus := ev.BusNumber.String
		if _, seen := riders[bus]; !seen {
			order = append(order, bus)
		}
		riders[bus]++
	}

	loads := make([]BusLoad, 0, len(order))
	for _, bus := range order {
		loads = append(loads, BusLoad{
			BusNumber: bus,
			Riders:    riders[bus],
			Capacity:  capacities[bus],
		})
	}
	return loads
}
