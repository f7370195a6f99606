package builtin

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// Kind is the kind of builtin topic.
type Kind uint8

// Kinds of builtin topics.
const (
	KindParticipant Kind = iota
	KindPublication
	KindSubscription
	KindTopic
)

// Kinds lists all the kinds of builtin topics.
var Kinds = []Kind{KindParticipant, KindPublication, KindSubscription, KindTopic}

func (k Kind) String() string {
	switch k {
	case KindParticipant:
		return "participant"
	case KindPublication:
		return "publication"
	case KindSubscription:
		return "subscription"
	case KindTopic:
		return "topic"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Announcement is the data announced by discovery.
type Announcement interface {
	// Kind returns the builtin topic carrying the announcement.
	Kind() Kind

	// BuiltinTopicKey returns the key of the announced entity.
	BuiltinTopicKey() rtps.BuiltinTopicKey

	// MarshalParameterList encodes the announcement.
	MarshalParameterList(opts ...cdr.Option) ([]byte, error)
}

// Unmarshal decodes announcement of the given kind.
// On error the returned announcement keeps what the options allowed to decode.
func Unmarshal(kind Kind, b []byte, opts ...cdr.Option) (Announcement, error) {
	switch kind {
	case KindParticipant:
		d := NewParticipantBuiltinTopicData()
		return d, d.UnmarshalParameterList(b, opts...)
	case KindPublication:
		d := NewPublicationBuiltinTopicData()
		return d, d.UnmarshalParameterList(b, opts...)
	case KindSubscription:
		d := NewSubscriptionBuiltinTopicData()
		return d, d.UnmarshalParameterList(b, opts...)
	case KindTopic:
		d := NewTopicBuiltinTopicData()
		return d, d.UnmarshalParameterList(b, opts...)
	default:
		return nil, errors.Errorf("unknown builtin topic kind %d", kind)
	}
}

// QosChanged returns ids of policies which differ between two announcements of the same kind.
// Nil is returned for announcements of different kinds.
func QosChanged(a1, a2 Announcement) []qos.PolicyID {
	switch d1 := a1.(type) {
	case *ParticipantBuiltinTopicData:
		if d2, ok := a2.(*ParticipantBuiltinTopicData); ok {
			return d1.QosChanged(d2)
		}
	case *PublicationBuiltinTopicData:
		if d2, ok := a2.(*PublicationBuiltinTopicData); ok {
			return d1.QosChanged(d2)
		}
	case *SubscriptionBuiltinTopicData:
		if d2, ok := a2.(*SubscriptionBuiltinTopicData); ok {
			return d1.QosChanged(d2)
		}
	case *TopicBuiltinTopicData:
		if d2, ok := a2.(*TopicBuiltinTopicData); ok {
			return d1.QosChanged(d2)
		}
	}
	return nil
}

type qosDiff []qos.PolicyID

func diffPolicy[T interface{ Equal(T) bool }](diff *qosDiff, id qos.PolicyID, p1, p2 qos.Optional[T]) {
	if !p1.Value.Equal(p2.Value) {
		*diff = append(*diff, id)
	}
}
