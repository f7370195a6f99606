package builtin

import (
	"github.com/pkg/errors"

	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// TopicBuiltinTopicData is announced by topic discovery.
type TopicBuiltinTopicData struct {
	Key                rtps.BuiltinTopicKey
	Name               string
	TypeName           string
	Durability         qos.Optional[qos.Durability]
	DurabilityService  qos.Optional[qos.DurabilityService]
	Deadline           qos.Optional[qos.Deadline]
	LatencyBudget      qos.Optional[qos.LatencyBudget]
	Liveliness         qos.Optional[qos.Liveliness]
	Reliability        qos.Optional[qos.Reliability]
	TransportPriority  qos.Optional[qos.TransportPriority]
	Lifespan           qos.Optional[qos.Lifespan]
	DestinationOrder   qos.Optional[qos.DestinationOrder]
	History            qos.Optional[qos.History]
	ResourceLimits     qos.Optional[qos.ResourceLimits]
	Ownership          qos.Optional[qos.Ownership]
	TopicData          qos.Optional[qos.TopicData]
	DataRepresentation qos.Optional[qos.DataRepresentation]
}

// NewTopicBuiltinTopicData returns topic data with all the optional fields absent.
func NewTopicBuiltinTopicData() *TopicBuiltinTopicData {
	q := qos.DefaultTopicQos()
	return &TopicBuiltinTopicData{
		Durability:         qos.Default(q.Durability),
		DurabilityService:  qos.Default(q.DurabilityService),
		Deadline:           qos.Default(q.Deadline),
		LatencyBudget:      qos.Default(q.LatencyBudget),
		Liveliness:         qos.Default(q.Liveliness),
		Reliability:        qos.Default(q.Reliability),
		Lifespan:           qos.Default(q.Lifespan),
		DestinationOrder:   qos.Default(q.DestinationOrder),
		History:            qos.Default(q.History),
		ResourceLimits:     qos.Default(q.ResourceLimits),
		DataRepresentation: qos.Default(q.DataRepresentation),
	}
}

// FromTopicQos builds the data announced for local topic.
func FromTopicQos(key rtps.GUID, name, typeName string, q qos.TopicQos) (*TopicBuiltinTopicData, error) {
	if err := q.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "topic %s", name)
	}

	d := NewTopicBuiltinTopicData()
	d.Key = rtps.BuiltinTopicKeyFromGUID(key)
	d.Name = name
	d.TypeName = typeName
	d.Durability.Set(q.Durability)
	d.DurabilityService.Set(q.DurabilityService)
	d.Deadline.Set(q.Deadline)
	d.LatencyBudget.Set(q.LatencyBudget)
	d.Liveliness.Set(q.Liveliness)
	d.Reliability.Set(q.Reliability)
	d.TransportPriority.Set(q.TransportPriority)
	d.Lifespan.Set(q.Lifespan)
	d.DestinationOrder.Set(q.DestinationOrder)
	d.History.Set(q.History)
	d.ResourceLimits.Set(q.ResourceLimits)
	d.Ownership.Set(q.Ownership)
	d.DataRepresentation.Set(q.DataRepresentation)
	if len(q.TopicData.Value) > 0 {
		d.TopicData.Set(q.TopicData)
	}
	return d, nil
}

// Kind returns KindTopic.
func (d *TopicBuiltinTopicData) Kind() Kind {
	return KindTopic
}

// BuiltinTopicKey returns the key of topic.
func (d *TopicBuiltinTopicData) BuiltinTopicKey() rtps.BuiltinTopicKey {
	return d.Key
}

// Equal compares keys only.
func (d *TopicBuiltinTopicData) Equal(other *TopicBuiltinTopicData) bool {
	return d.Key == other.Key
}

// QosChanged returns ids of policies which differ.
func (d *TopicBuiltinTopicData) QosChanged(other *TopicBuiltinTopicData) []qos.PolicyID {
	var diff qosDiff
	diffPolicy(&diff, qos.PolicyIDDurability, d.Durability, other.Durability)
	diffPolicy(&diff, qos.PolicyIDDurabilityService, d.DurabilityService, other.DurabilityService)
	diffPolicy(&diff, qos.PolicyIDDeadline, d.Deadline, other.Deadline)
	diffPolicy(&diff, qos.PolicyIDLatencyBudget, d.LatencyBudget, other.LatencyBudget)
	diffPolicy(&diff, qos.PolicyIDLiveliness, d.Liveliness, other.Liveliness)
	diffPolicy(&diff, qos.PolicyIDReliability, d.Reliability, other.Reliability)
	diffPolicy(&diff, qos.PolicyIDTransportPriority, d.TransportPriority, other.TransportPriority)
	diffPolicy(&diff, qos.PolicyIDLifespan, d.Lifespan, other.Lifespan)
	diffPolicy(&diff, qos.PolicyIDDestinationOrder, d.DestinationOrder, other.DestinationOrder)
	diffPolicy(&diff, qos.PolicyIDHistory, d.History, other.History)
	diffPolicy(&diff, qos.PolicyIDResourceLimits, d.ResourceLimits, other.ResourceLimits)
	diffPolicy(&diff, qos.PolicyIDOwnership, d.Ownership, other.Ownership)
	diffPolicy(&diff, qos.PolicyIDTopicData, d.TopicData, other.TopicData)
	diffPolicy(&diff, qos.PolicyIDDataRepresentation, d.DataRepresentation, other.DataRepresentation)
	return diff
}

// MarshalParameterList encodes topic data.
func (d *TopicBuiltinTopicData) MarshalParameterList(opts ...cdr.Option) ([]byte, error) {
	e := newEncoder(opts)
	e.write(PIDEndpointGUID, func(w *cdr.Writer) {
		writeKey(w, d.Key)
	})
	e.write(PIDTopicName, func(w *cdr.Writer) {
		w.String(d.Name)
	})
	e.write(PIDTypeName, func(w *cdr.Writer) {
		w.String(d.TypeName)
	})
	writeOptional(e, PIDDurability, d.Durability, writeDurability)
	writeOptional(e, PIDDurabilityService, d.DurabilityService, writeDurabilityService)
	writeOptional(e, PIDDeadline, d.Deadline, writeDeadline)
	writeOptional(e, PIDLatencyBudget, d.LatencyBudget, writeLatencyBudget)
	writeOptional(e, PIDLiveliness, d.Liveliness, writeLiveliness)
	writeOptional(e, PIDReliability, d.Reliability, writeReliability)
	writeOptional(e, PIDTransportPriority, d.TransportPriority, writeTransportPriority)
	writeOptional(e, PIDLifespan, d.Lifespan, writeLifespan)
	writeOptional(e, PIDDestinationOrder, d.DestinationOrder, writeDestinationOrder)
	writeOptional(e, PIDHistory, d.History, writeHistory)
	writeOptional(e, PIDResourceLimits, d.ResourceLimits, writeResourceLimits)
	writeOptional(e, PIDOwnership, d.Ownership, writeOwnership)
	writeOptional(e, PIDTopicData, d.TopicData, writeTopicData)
	writeOptional(e, PIDDataRepresentation, d.DataRepresentation, writeDataRepresentation)
	return e.bytes()
}

// UnmarshalParameterList decodes topic data.
func (d *TopicBuiltinTopicData) UnmarshalParameterList(b []byte, opts ...cdr.Option) error {
	return decode(b, d, func() TopicBuiltinTopicData {
		return *NewTopicBuiltinTopicData()
	}, (*TopicBuiltinTopicData).decodeParameter, (*TopicBuiltinTopicData).validate, opts)
}

func (d *TopicBuiltinTopicData) decodeParameter(pid cdr.ParameterID, r *cdr.Reader) (bool, error) {
	var err error
	switch pid {
	case PIDEndpointGUID:
		d.Key, err = readKey(r)
	case PIDTopicName:
		d.Name, err = r.String()
	case PIDTypeName:
		d.TypeName, err = r.String()
	case PIDDurability:
		err = readOptional(&d.Durability, r, readDurability)
	case PIDDurabilityService:
		err = readOptional(&d.DurabilityService, r, readDurabilityService)
	case PIDDeadline:
		err = readOptional(&d.Deadline, r, readDeadline)
	case PIDLatencyBudget:
		err = readOptional(&d.LatencyBudget, r, readLatencyBudget)
	case PIDLiveliness:
		err = readOptional(&d.Liveliness, r, readLiveliness)
	case PIDReliability:
		err = readOptional(&d.Reliability, r, readReliability)
	case PIDTransportPriority:
		err = readOptional(&d.TransportPriority, r, readTransportPriority)
	case PIDLifespan:
		err = readOptional(&d.Lifespan, r, readLifespan)
	case PIDDestinationOrder:
		err = readOptional(&d.DestinationOrder, r, readDestinationOrder)
	case PIDHistory:
		err = readOptional(&d.History, r, readHistory)
	case PIDResourceLimits:
		err = readOptional(&d.ResourceLimits, r, readResourceLimits)
	case PIDOwnership:
		err = readOptional(&d.Ownership, r, readOwnership)
	case PIDTopicData:
		err = readOptional(&d.TopicData, r, readTopicData)
	case PIDDataRepresentation:
		err = readOptional(&d.DataRepresentation, r, readDataRepresentation)
	case PIDKeyHash:
		if d.Key.IsUnknown() {
			d.Key, err = readKey(r)
		}
	default:
		return false, nil
	}
	return true, err
}

func (d *TopicBuiltinTopicData) validate() error {
	if d.Name == "" {
		return errors.Wrap(cdr.ErrMalformedPayload, "topic name is missing")
	}
	return nil
}
