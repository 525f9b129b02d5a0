package floor

import "errors"

// Kind classifies a floor error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: bad input, nothing was sent.
	KindValidation
	// KindPrecondition: the current state forbids the operation, nothing was sent.
	KindPrecondition
	// KindRemote: the Remote Store rejected the call or could not be reached.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindRemote:
		return "remote"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

var (
	ErrEmptyZoneName     = errors.New("zone name is required")
	ErrReservedZoneName  = errors.New("zone name is reserved")
	ErrDuplicateZoneName = errors.New("a zone with that name already exists")
	ErrInvalidCapacity   = errors.New("capacity must be a whole number")
	ErrNoZoneSelected    = errors.New("no zone selected")
	ErrEmptyTableName    = errors.New("table name is required")
	ErrInvalidState      = errors.New("unknown table state")

	ErrZoneOccupied         = errors.New("zone has occupied or in-service tables")
	ErrTableInService       = errors.New("cannot edit a table in service")
	ErrTableHasOrder        = errors.New("table has an active order")
	ErrTableNotInteractive  = errors.New("table belongs to a group and is not the primary")
	ErrReservedZone         = errors.New("reserved zone cannot be modified")
	ErrZoneNotFound         = errors.New("zone not found")
	ErrTableNotFound        = errors.New("table not found")
	ErrZoneInactive         = errors.New("zone is closed")
	ErrNoUnassignedZone     = errors.New("no Unassigned zone is configured")
	ErrConfirmationRequired = errors.New("deletion requires confirmation")
	ErrDispositionRequired  = errors.New("zone has tables: choose what to do with them")
	ErrInvalidDestination   = errors.New("invalid destination zone")
	ErrNotInDeleteMode      = errors.New("not in delete mode")
	ErrNothingSelected      = errors.New("no tables selected")
)

func validation(err error) error   { return &Error{Kind: KindValidation, Err: err} }
func precondition(err error) error { return &Error{Kind: KindPrecondition, Err: err} }
func remote(err error) error       { return &Error{Kind: KindRemote, Err: err} }
