package core

// Metrics records business events. Implementations must be safe for concurrent use.
type Metrics interface {
	LimitChecked(kind string, exceeded bool)
	ProgressRecorded(status string)
	EquipmentAssigned(outcome string)
}

type nopMetrics struct{}

func NewNopMetrics() Metrics { return nopMetrics{} }

func (nopMetrics) LimitChecked(string, bool) {}
func (nopMetrics) ProgressRecorded(string)   {}
func (nopMetrics) EquipmentAssigned(string)  {}
