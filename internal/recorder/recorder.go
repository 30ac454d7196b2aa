package recorder

// CycleRecord holds one synchronization cycle's outcome for the history
// database.
type CycleRecord struct {
	SymbolCount   int
	FetchedCount  int
	FailedCount   int
	TotalInvested float64
	CurrentValue  float64
	UnrealizedPL  float64
	RealizedPL    float64

	CurrentReturnPct   float64
	CurrentBenchPct    float64
	AllTimeReturnPct   float64
	AllTimeBenchPct    float64
}

// FailureRecord is one per-symbol fetch failure within a cycle.
type FailureRecord struct {
	Symbol string
	Reason string
}

// Recorder persists cycle history for later analysis.
type Recorder interface {
	RecordCycle(rec *CycleRecord, failures []FailureRecord) error
	Close() error
}
