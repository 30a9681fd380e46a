package utility

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TraceID tags individual events (bars, trades) flowing through the bus with
// a sortable identifier: 41 bits of millisecond timestamp, 8 bits of instance
// id, 15 bits of sequence.
type TraceID = uint64

const (
	instanceBits = 8
	seqBits      = 15

	maxInstance = 1<<instanceBits - 1
	maxSeq      = 1<<seqBits - 1

	instanceShift  = seqBits
	timestampShift = instanceBits + seqBits
)

var (
	traceSeq   atomic.Uint64
	traceEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	// Mixing the pid in keeps forked test processes on one host apart.
	instanceID = (uint64(os.Getpid()) ^ uint64(uuid.New().ID())) & maxInstance
)

func CreateTraceID() TraceID {
	millis := uint64(time.Now().UnixMilli() - traceEpoch)
	seq := traceSeq.Add(1) & maxSeq

	// Sequence wrapped within one millisecond, move to the next one.
	if seq == 0 {
		time.Sleep(time.Millisecond)
		millis = uint64(time.Now().UnixMilli() - traceEpoch)
	}

	return (millis << timestampShift) | (instanceID << instanceShift) | seq
}

func ParseTraceID(id TraceID) (timestamp time.Time, instance uint64, seq uint64) {
	seq = id & maxSeq
	instance = (id >> instanceShift) & maxInstance
	timestamp = time.UnixMilli(traceEpoch + int64(id>>timestampShift))
	return
}
