package tunnel

// Stats summarizes a scenario run, derived from its event log.
type Stats struct {
	TotalVehicles int `json:"totalVehicles"`
	Completed     int `json:"completed"`
	Interrupted   int `json:"interrupted"`
	Preemptions   int `json:"preemptions"` // Ambulance crossings that announced a preemption
	TotalEvents   int `json:"totalEvents"`

	CompletedByKind map[string]int `json:"completedByKind"`
}

// ComputeStats folds an event log into a Stats summary.
func ComputeStats(l *EventLog, totalVehicles int) *Stats {
	s := &Stats{
		TotalVehicles:   totalVehicles,
		CompletedByKind: make(map[string]int),
	}
	for _, e := range l.Events() {
		s.TotalEvents++
		switch e.Type {
		case EventTypeComplete:
			s.Completed++
			s.CompletedByKind[e.Kind.String()]++
		case EventTypeInterrupted:
			s.Interrupted++
		case EventTypePreemptStart:
			s.Preemptions++
		}
	}
	return s
}
