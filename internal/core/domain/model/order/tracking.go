package order

import (
	"fmt"
	"iter"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// TrackingStatus labels a tracking entry. It is either one of the eight real
// statuses or TrackingInformational, which never moves the order.
type TrackingStatus string

// TrackingInformational marks pings such as "driver 2 minutes away".
const TrackingInformational TrackingStatus = "informational"

// TrackingStatusOf labels an entry written by a transition into s.
func TrackingStatusOf(s Status) TrackingStatus {
	return TrackingStatus(s.String())
}

func (t TrackingStatus) IsInformational() bool {
	return t == TrackingInformational
}

// Status returns the real status behind t; ok is false for informational entries.
func (t TrackingStatus) Status() (status Status, ok bool) {
	if t.IsInformational() {
		return Unknown, false
	}
	parsed, err := ParseStatus(string(t))
	if err != nil {
		return Unknown, false
	}
	return parsed, true
}

func (t TrackingStatus) Validate() error {
	if _, ok := t.Status(); ok || t.IsInformational() {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("tracking status", fmt.Errorf("%q is not a valid tracking status", string(t)))
}

// TrackingUpdate is one immutable entry of the tracking log.
type TrackingUpdate struct {
	Seq       int              `json:"seq"`
	Status    TrackingStatus   `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Message   string           `json:"message"`
	Location  *kernel.GeoPoint `json:"location,omitempty"`
}

// TrackingLog is the append-only event history of one order. Sequence numbers
// run 1..n and timestamps never decrease: an entry stamped earlier than its
// predecessor is clamped to the predecessor's timestamp.
type TrackingLog struct {
	entries []TrackingUpdate
}

func newTrackingLog(entries []TrackingUpdate) (TrackingLog, error) {
	log := TrackingLog{entries: make([]TrackingUpdate, 0, len(entries))}
	for idx, e := range entries {
		if e.Seq != idx+1 {
			return TrackingLog{}, errs.NewValueIsInvalidErrorWithCause(
				"tracking updates", fmt.Errorf("entry %d has seq %d", idx+1, e.Seq))
		}
		if err := e.Status.Validate(); err != nil {
			return TrackingLog{}, err
		}
		if last, ok := log.Last(); ok && e.Timestamp.Before(last.Timestamp) {
			return TrackingLog{}, errs.NewValueIsInvalidErrorWithCause(
				"tracking updates", fmt.Errorf("entry %d is older than entry %d", e.Seq, last.Seq))
		}
		log.entries = append(log.entries, e)
	}
	return log, nil
}

// clamp returns the timestamp the next entry would get for at.
func (l TrackingLog) clamp(at time.Time) time.Time {
	if last, ok := l.Last(); ok && at.Before(last.Timestamp) {
		return last.Timestamp
	}
	return at
}

func (l *TrackingLog) append(status TrackingStatus, at time.Time, message string, location *kernel.GeoPoint) TrackingUpdate {
	var loc *kernel.GeoPoint
	if location != nil {
		copied := *location
		loc = &copied
	}
	entry := TrackingUpdate{
		Seq:       len(l.entries) + 1,
		Status:    status,
		Timestamp: l.clamp(at),
		Message:   message,
		Location:  loc,
	}
	l.entries = append(l.entries, entry)
	return entry
}

// All yields every entry in order. The sequence is lazy and can be ranged over
// any number of times; it ends at the entries present when All was called.
func (l TrackingLog) All() iter.Seq[TrackingUpdate] {
	return l.Since(0)
}

// Since yields the entries with a sequence number greater than seq.
func (l TrackingLog) Since(seq int) iter.Seq[TrackingUpdate] {
	entries := l.entries
	return func(yield func(TrackingUpdate) bool) {
		for _, e := range entries {
			if e.Seq <= seq {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Last returns the newest entry.
func (l TrackingLog) Last() (TrackingUpdate, bool) {
	if len(l.entries) == 0 {
		return TrackingUpdate{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l TrackingLog) Len() int {
	return len(l.entries)
}
