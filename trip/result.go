package trip

import "github.com/zetflow/zetflow-live/model"

// Status classifies a lookup.
type Status int

const (
	Found Status = iota
	NotFound
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not-found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of a Lookup. Trip is set only when Status is Found; Err
// is set for NotFound and Failed.
type Result struct {
	Status Status
	Trip   *model.TripDetail
	Err    error
}

func notFound() Result { return Result{Status: NotFound, Err: ErrNotFound} }

func failed(err error) Result { return Result{Status: Failed, Err: err} }
