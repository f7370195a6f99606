package discovery

import (
	"fmt"

	"github.com/greenstonesoft/greenstone-dds-sub002/builtin"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// EventType tells what happened to the cached entity.
type EventType uint8

// Event types.
const (
	// EventIgnored is reported for stale samples and for disposals of unknown entities.
	EventIgnored EventType = iota
	EventNew
	EventQosChanged
	EventUnchanged
	EventDisposed
)

func (t EventType) String() string {
	switch t {
	case EventIgnored:
		return "ignored"
	case EventNew:
		return "new"
	case EventQosChanged:
		return "qosChanged"
	case EventUnchanged:
		return "unchanged"
	case EventDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// Event describes the change applied to the cache.
type Event struct {
	Type EventType
	Kind builtin.Kind
	Key  rtps.BuiltinTopicKey

	// Announcement is the current data of the entity, or the last known one for disposed entity.
	Announcement builtin.Announcement

	// Changed lists the policies which differ from the previous announcement.
	Changed []qos.PolicyID

	// Removed lists keys of endpoints and topics dropped together with disposed participant.
	Removed []rtps.BuiltinTopicKey
}
