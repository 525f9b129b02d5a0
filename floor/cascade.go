package floor

// DeletionOutcome classifies what deleting a zone involves.
type DeletionOutcome int

const (
	// OutcomeEmpty: no table references the zone.
	OutcomeEmpty DeletionOutcome = iota + 1
	// OutcomeBlocked: at least one table is not free.
	OutcomeBlocked
	// OutcomeNeedsChoice: only free tables; the operator decides their fate.
	OutcomeNeedsChoice
)

func (o DeletionOutcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeNeedsChoice:
		return "needs_choice"
	}
	return "unknown"
}

// DeletionPlan is computed before anything is written.
type DeletionPlan struct {
	Zone     Zone
	Outcome  DeletionOutcome
	Tables   []Table
	Blocking []Table
}

// TableIDs returns the ids of the affected tables.
func (p DeletionPlan) TableIDs() []int64 {
	ids := make([]int64, len(p.Tables))
	for i, t := range p.Tables {
		ids[i] = t.ID
	}
	return ids
}

// PlanZoneDeletion classifies the deletion of zone against the current tables.
func PlanZoneDeletion(zone Zone, tables []Table) DeletionPlan {
	p := DeletionPlan{Zone: zone}
	for _, t := range tables {
		if t.ZoneID == nil || *t.ZoneID != zone.ID {
			continue
		}
		p.Tables = append(p.Tables, t)
		if t.State != StateFree {
			p.Blocking = append(p.Blocking, t)
		}
	}
	switch {
	case len(p.Tables) == 0:
		p.Outcome = OutcomeEmpty
	case len(p.Blocking) > 0:
		p.Outcome = OutcomeBlocked
	default:
		p.Outcome = OutcomeNeedsChoice
	}
	return p
}

// Disposition says what happens to the free tables of a deleted zone.
type Disposition int

const (
	DispositionNone Disposition = iota
	// DispositionDeleteAll removes the zone and its tables in one request.
	DispositionDeleteAll
	// DispositionMoveTo repoints the tables to an existing zone.
	DispositionMoveTo
	// DispositionMoveToNew creates a zone and repoints the tables to it.
	DispositionMoveToNew
	// DispositionMoveToUnassigned repoints the tables to the Unassigned zone.
	DispositionMoveToUnassigned
)

func (d Disposition) String() string {
	switch d {
	case DispositionDeleteAll:
		return "delete_all"
	case DispositionMoveTo:
		return "move"
	case DispositionMoveToNew:
		return "move_new"
	case DispositionMoveToUnassigned:
		return "move_unassigned"
	}
	return "none"
}

// ParseDisposition maps the CLI spelling of a disposition.
func ParseDisposition(s string) (Disposition, bool) {
	for _, d := range []Disposition{DispositionDeleteAll, DispositionMoveTo, DispositionMoveToNew, DispositionMoveToUnassigned} {
		if d.String() == s {
			return d, true
		}
	}
	return DispositionNone, false
}

// DeleteOptions carries the operator's answers for a zone deletion.
type DeleteOptions struct {
	// Confirmed answers the confirmation prompt of an empty zone.
	Confirmed     bool
	Disposition   Disposition
	DestinationID int64
	NewZoneName   string
}

// CascadeReport describes what a zone deletion did.
type CascadeReport struct {
	Plan          DeletionPlan
	Disposition   Disposition
	DestinationID int64
	Moves         BatchResult
	ZoneDeleted   bool
}

// CheckZoneMovable refuses a bulk move out of zone when one of its tables
// cannot be edited. Unlike deletion, inactive tables may move.
func CheckZoneMovable(zone Zone, tables []Table) error {
	for _, t := range tables {
		if t.ZoneID == nil || *t.ZoneID != zone.ID {
			continue
		}
		if err := CheckEditable(t); err != nil {
			return err
		}
	}
	return nil
}
