package model

import (
	"cmp"
	"fmt"
	"sync/atomic"
	"time"
)

var sequence atomic.Uint64

// Operation is an immutable snapshot of a wallet balance taken right after a
// balance-changing call. Records are ordered by creation: every record gets
// the next value of a process-wide sequence, so two records compare equal
// only when they are the same record.
type Operation struct {
	units int64
	seq   uint64
	at    time.Time
	kind  OperationType
}

// NewOperation records units as of at.
func NewOperation(kind OperationType, units int64, at time.Time) Operation {
	return Operation{
		units: units,
		seq:   sequence.Add(1),
		at:    at,
		kind:  kind,
	}
}

func (o Operation) Units() int64        { return o.units }
func (o Operation) Seq() uint64         { return o.seq }
func (o Operation) Time() time.Time     { return o.at }
func (o Operation) Kind() OperationType { return o.kind }

// Date renders the day the operation was made.
func (o Operation) Date() string {
	return o.at.Format(time.DateOnly)
}

// Compare returns -1, 0 or +1 depending on whether o was created before, at
// the same time as, or after other.
func (o Operation) Compare(other Operation) int {
	return cmp.Compare(o.seq, other.seq)
}

func (o Operation) Equal(other Operation) bool          { return o.Compare(other) == 0 }
func (o Operation) Less(other Operation) bool           { return o.Compare(other) < 0 }
func (o Operation) LessOrEqual(other Operation) bool    { return o.Compare(other) <= 0 }
func (o Operation) Greater(other Operation) bool        { return o.Compare(other) > 0 }
func (o Operation) GreaterOrEqual(other Operation) bool { return o.Compare(other) >= 0 }

func (o Operation) String() string {
	return fmt.Sprintf("Wallet balance is %d sub-units after operation made at day %s", o.units, o.Date())
}
