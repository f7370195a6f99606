package builtin

import (
	"github.com/pkg/errors"

	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// PublicationBuiltinTopicData is announced by endpoint discovery for every data writer.
type PublicationBuiltinTopicData struct {
	Key                rtps.BuiltinTopicKey
	ParticipantKey     rtps.BuiltinTopicKey
	TopicName          string
	TypeName           string
	Durability         qos.Optional[qos.Durability]
	DurabilityService  qos.Optional[qos.DurabilityService]
	Deadline           qos.Optional[qos.Deadline]
	LatencyBudget      qos.Optional[qos.LatencyBudget]
	Liveliness         qos.Optional[qos.Liveliness]
	Reliability        qos.Optional[qos.Reliability]
	Lifespan           qos.Optional[qos.Lifespan]
	UserData           qos.Optional[qos.UserData]
	Ownership          qos.Optional[qos.Ownership]
	OwnershipStrength  qos.Optional[qos.OwnershipStrength]
	DestinationOrder   qos.Optional[qos.DestinationOrder]
	Presentation       qos.Optional[qos.Presentation]
	Partition          qos.Optional[qos.Partition]
	TopicData          qos.Optional[qos.TopicData]
	GroupData          qos.Optional[qos.GroupData]
	History            qos.Optional[qos.History]
	ResourceLimits     qos.Optional[qos.ResourceLimits]
	TransportPriority  qos.Optional[qos.TransportPriority]
	DataRepresentation qos.Optional[qos.DataRepresentation]
	UnicastLocators    []rtps.Locator
	MulticastLocators  []rtps.Locator
	Properties         qos.Property
	EntityName         qos.Optional[string]
}

// NewPublicationBuiltinTopicData returns publication data with all the optional fields absent.
func NewPublicationBuiltinTopicData() *PublicationBuiltinTopicData {
	return &PublicationBuiltinTopicData{
		Durability:         qos.Default(qos.DefaultDurability()),
		DurabilityService:  qos.Default(qos.DefaultDurabilityService()),
		Deadline:           qos.Default(qos.DefaultDeadline()),
		LatencyBudget:      qos.Default(qos.DefaultLatencyBudget()),
		Liveliness:         qos.Default(qos.DefaultLiveliness()),
		Reliability:        qos.Default(qos.BestEffort(rtps.DurationZero)),
		Lifespan:           qos.Default(qos.DefaultLifespan()),
		DestinationOrder:   qos.Default(qos.DefaultDestinationOrder()),
		History:            qos.Default(qos.DefaultHistory()),
		ResourceLimits:     qos.Default(qos.DefaultResourceLimits()),
		DataRepresentation: qos.Default(qos.DefaultDataRepresentation()),
	}
}

// FromDataWriterQos builds the data announced for local writer.
// Inconsistent Qos is rejected with qos.ErrInconsistentPolicy.
func FromDataWriterQos(
	writer, participant rtps.GUID,
	topicName, typeName string,
	publisher qos.PublisherQos,
	q qos.DataWriterQos,
) (*PublicationBuiltinTopicData, error) {
	if err := q.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "writer %s", writer)
	}

	d := NewPublicationBuiltinTopicData()
	d.Key = rtps.BuiltinTopicKeyFromGUID(writer)
	d.ParticipantKey = rtps.BuiltinTopicKeyFromGUID(participant)
	d.TopicName = topicName
	d.TypeName = typeName
	d.Durability.Set(q.Durability)
	d.DurabilityService.Set(q.DurabilityService)
	d.Deadline.Set(q.Deadline)
	d.LatencyBudget.Set(q.LatencyBudget)
	d.Liveliness.Set(q.Liveliness)
	d.Reliability.Set(q.Reliability)
	d.Lifespan.Set(q.Lifespan)
	d.Ownership.Set(q.Ownership)
	d.OwnershipStrength.Set(q.OwnershipStrength)
	d.DestinationOrder.Set(q.DestinationOrder)
	d.History.Set(q.History)
	d.ResourceLimits.Set(q.ResourceLimits)
	d.TransportPriority.Set(q.TransportPriority)
	d.DataRepresentation.Set(q.DataRepresentation)
	d.Presentation.Set(publisher.Presentation)
	if len(q.UserData.Value) > 0 {
		d.UserData.Set(q.UserData)
	}
	if len(publisher.Partition.Names) > 0 {
		d.Partition.Set(publisher.Partition)
	}
	if len(publisher.GroupData.Value) > 0 {
		d.GroupData.Set(publisher.GroupData)
	}
	d.Properties = q.Property
	return d, nil
}

// Kind returns KindPublication.
func (d *PublicationBuiltinTopicData) Kind() Kind {
	return KindPublication
}

// BuiltinTopicKey returns the key of writer.
func (d *PublicationBuiltinTopicData) BuiltinTopicKey() rtps.BuiltinTopicKey {
	return d.Key
}

// GUID returns GUID of writer.
func (d *PublicationBuiltinTopicData) GUID() rtps.GUID {
	return d.Key.GUID()
}

// Equal compares keys only.
func (d *PublicationBuiltinTopicData) Equal(other *PublicationBuiltinTopicData) bool {
	return d.Key == other.Key
}

// QosChanged returns ids of policies which differ.
func (d *PublicationBuiltinTopicData) QosChanged(other *PublicationBuiltinTopicData) []qos.PolicyID {
	var diff qosDiff
	diffPolicy(&diff, qos.PolicyIDDurability, d.Durability, other.Durability)
	diffPolicy(&diff, qos.PolicyIDDurabilityService, d.DurabilityService, other.DurabilityService)
	diffPolicy(&diff, qos.PolicyIDDeadline, d.Deadline, other.Deadline)
	diffPolicy(&diff, qos.PolicyIDLatencyBudget, d.LatencyBudget, other.LatencyBudget)
	diffPolicy(&diff, qos.PolicyIDLiveliness, d.Liveliness, other.Liveliness)
	diffPolicy(&diff, qos.PolicyIDReliability, d.Reliability, other.Reliability)
	diffPolicy(&diff, qos.PolicyIDLifespan, d.Lifespan, other.Lifespan)
	diffPolicy(&diff, qos.PolicyIDUserData, d.UserData, other.UserData)
	diffPolicy(&diff, qos.PolicyIDOwnership, d.Ownership, other.Ownership)
	diffPolicy(&diff, qos.PolicyIDOwnershipStrength, d.OwnershipStrength, other.OwnershipStrength)
	diffPolicy(&diff, qos.PolicyIDDestinationOrder, d.DestinationOrder, other.DestinationOrder)
	diffPolicy(&diff, qos.PolicyIDPresentation, d.Presentation, other.Presentation)
	diffPolicy(&diff, qos.PolicyIDPartition, d.Partition, other.Partition)
	diffPolicy(&diff, qos.PolicyIDTopicData, d.TopicData, other.TopicData)
	diffPolicy(&diff, qos.PolicyIDGroupData, d.GroupData, other.GroupData)
	diffPolicy(&diff, qos.PolicyIDHistory, d.History, other.History)
	diffPolicy(&diff, qos.PolicyIDResourceLimits, d.ResourceLimits, other.ResourceLimits)
	diffPolicy(&diff, qos.PolicyIDTransportPriority, d.TransportPriority, other.TransportPriority)
	diffPolicy(&diff, qos.PolicyIDDataRepresentation, d.DataRepresentation, other.DataRepresentation)
	if !d.Properties.Equal(other.Properties) {
		diff = append(diff, qos.PolicyIDProperty)
	}
	return diff
}

// MarshalParameterList encodes publication data.
func (d *PublicationBuiltinTopicData) MarshalParameterList(opts ...cdr.Option) ([]byte, error) {
	e := newEncoder(opts)
	e.write(PIDEndpointGUID, func(w *cdr.Writer) {
		writeKey(w, d.Key)
	})
	e.write(PIDParticipantGUID, func(w *cdr.Writer) {
		writeKey(w, d.ParticipantKey)
	})
	e.write(PIDTopicName, func(w *cdr.Writer) {
		w.String(d.TopicName)
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
	writeOptional(e, PIDLifespan, d.Lifespan, writeLifespan)
	writeOptional(e, PIDUserData, d.UserData, writeUserData)
	writeOptional(e, PIDOwnership, d.Ownership, writeOwnership)
	writeOptional(e, PIDOwnershipStrength, d.OwnershipStrength, writeOwnershipStrength)
	writeOptional(e, PIDDestinationOrder, d.DestinationOrder, writeDestinationOrder)
	writeOptional(e, PIDPresentation, d.Presentation, writePresentation)
	writeOptional(e, PIDPartition, d.Partition, writePartition)
	writeOptional(e, PIDTopicData, d.TopicData, writeTopicData)
	writeOptional(e, PIDGroupData, d.GroupData, writeGroupData)
	writeOptional(e, PIDHistory, d.History, writeHistory)
	writeOptional(e, PIDResourceLimits, d.ResourceLimits, writeResourceLimits)
	writeOptional(e, PIDTransportPriority, d.TransportPriority, writeTransportPriority)
	writeOptional(e, PIDDataRepresentation, d.DataRepresentation, writeDataRepresentation)
	writeLocators(e, PIDUnicastLocator, d.UnicastLocators)
	writeLocators(e, PIDMulticastLocator, d.MulticastLocators)
	if len(d.Properties.Public()) > 0 {
		e.write(PIDPropertyList, func(w *cdr.Writer) {
			writePropertyList(w, d.Properties)
		})
	}
	writeOptional(e, PIDEntityName, d.EntityName, writeString)
	return e.bytes()
}

// UnmarshalParameterList decodes publication data.
func (d *PublicationBuiltinTopicData) UnmarshalParameterList(b []byte, opts ...cdr.Option) error {
	return decode(b, d, func() PublicationBuiltinTopicData {
		return *NewPublicationBuiltinTopicData()
	}, (*PublicationBuiltinTopicData).decodeParameter, (*PublicationBuiltinTopicData).validate, opts)
}

func (d *PublicationBuiltinTopicData) decodeParameter(pid cdr.ParameterID, r *cdr.Reader) (bool, error) {
	var err error
	switch pid {
	case PIDEndpointGUID:
		d.Key, err = readKey(r)
	case PIDParticipantGUID:
		d.ParticipantKey, err = readKey(r)
	case PIDTopicName:
		d.TopicName, err = r.String()
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
	case PIDLifespan:
		err = readOptional(&d.Lifespan, r, readLifespan)
	case PIDUserData:
		err = readOptional(&d.UserData, r, readUserData)
	case PIDOwnership:
		err = readOptional(&d.Ownership, r, readOwnership)
	case PIDOwnershipStrength:
		err = readOptional(&d.OwnershipStrength, r, readOwnershipStrength)
	case PIDDestinationOrder:
		err = readOptional(&d.DestinationOrder, r, readDestinationOrder)
	case PIDPresentation:
		err = readOptional(&d.Presentation, r, readPresentation)
	case PIDPartition:
		err = readOptional(&d.Partition, r, readPartition)
	case PIDTopicData:
		err = readOptional(&d.TopicData, r, readTopicData)
	case PIDGroupData:
		err = readOptional(&d.GroupData, r, readGroupData)
	case PIDHistory:
		err = readOptional(&d.History, r, readHistory)
	case PIDResourceLimits:
		err = readOptional(&d.ResourceLimits, r, readResourceLimits)
	case PIDTransportPriority:
		err = readOptional(&d.TransportPriority, r, readTransportPriority)
	case PIDDataRepresentation:
		err = readOptional(&d.DataRepresentation, r, readDataRepresentation)
	case PIDUnicastLocator:
		err = appendLocator(&d.UnicastLocators, r)
	case PIDMulticastLocator:
		err = appendLocator(&d.MulticastLocators, r)
	case PIDPropertyList:
		d.Properties, err = readPropertyList(r)
	case PIDEntityName:
		err = readOptional(&d.EntityName, r, readString)
	case PIDKeyHash:
		if d.Key.IsUnknown() {
			d.Key, err = readKey(r)
		}
	default:
		return false, nil
	}
	return true, err
}

func (d *PublicationBuiltinTopicData) validate() error {
	if d.Key.IsUnknown() {
		return errors.Wrap(cdr.ErrMalformedPayload, "endpoint GUID is missing")
	}
	if d.ParticipantKey.IsUnknown() {
		d.ParticipantKey = rtps.BuiltinTopicKeyFromGUID(d.Key.GUID().ParticipantGUID())
	}
	return nil
}
