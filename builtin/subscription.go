package builtin

import (
	"github.com/pkg/errors"

	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// SubscriptionBuiltinTopicData is announced by endpoint discovery for every data reader.
type SubscriptionBuiltinTopicData struct {
	Key                rtps.BuiltinTopicKey
	ParticipantKey     rtps.BuiltinTopicKey
	TopicName          string
	TypeName           string
	Durability         qos.Optional[qos.Durability]
	Deadline           qos.Optional[qos.Deadline]
	LatencyBudget      qos.Optional[qos.LatencyBudget]
	Liveliness         qos.Optional[qos.Liveliness]
	Reliability        qos.Optional[qos.Reliability]
	Ownership          qos.Optional[qos.Ownership]
	DestinationOrder   qos.Optional[qos.DestinationOrder]
	UserData           qos.Optional[qos.UserData]
	TimeBasedFilter    qos.Optional[qos.TimeBasedFilter]
	Presentation       qos.Optional[qos.Presentation]
	Partition          qos.Optional[qos.Partition]
	TopicData          qos.Optional[qos.TopicData]
	GroupData          qos.Optional[qos.GroupData]
	History            qos.Optional[qos.History]
	ResourceLimits     qos.Optional[qos.ResourceLimits]
	DataRepresentation qos.Optional[qos.DataRepresentation]
	TypeConsistency    qos.Optional[qos.TypeConsistencyEnforcement]
	UnicastLocators    []rtps.Locator
	MulticastLocators  []rtps.Locator
	ExpectsInlineQos   bool
	Properties         qos.Property
	EntityName         qos.Optional[string]
}

// NewSubscriptionBuiltinTopicData returns subscription data with all the optional fields absent.
func NewSubscriptionBuiltinTopicData() *SubscriptionBuiltinTopicData {
	return &SubscriptionBuiltinTopicData{
		Durability:         qos.Default(qos.DefaultDurability()),
		Deadline:           qos.Default(qos.DefaultDeadline()),
		LatencyBudget:      qos.Default(qos.DefaultLatencyBudget()),
		Liveliness:         qos.Default(qos.DefaultLiveliness()),
		Reliability:        qos.Default(qos.BestEffort(rtps.DurationFromMilliseconds(100))),
		DestinationOrder:   qos.Default(qos.DefaultDestinationOrder()),
		History:            qos.Default(qos.DefaultHistory()),
		ResourceLimits:     qos.Default(qos.DefaultResourceLimits()),
		DataRepresentation: qos.Default(qos.DefaultDataRepresentation()),
		TypeConsistency:    qos.Default(qos.DefaultTypeConsistencyEnforcement()),
	}
}

// FromDataReaderQos builds the data announced for local reader.
// Inconsistent Qos is rejected with qos.ErrInconsistentPolicy.
func FromDataReaderQos(
	reader, participant rtps.GUID,
	topicName, typeName string,
	subscriber qos.SubscriberQos,
	q qos.DataReaderQos,
) (*SubscriptionBuiltinTopicData, error) {
	if err := q.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "reader %s", reader)
	}

	d := NewSubscriptionBuiltinTopicData()
	d.Key = rtps.BuiltinTopicKeyFromGUID(reader)
	d.ParticipantKey = rtps.BuiltinTopicKeyFromGUID(participant)
	d.TopicName = topicName
	d.TypeName = typeName
	d.Durability.Set(q.Durability)
	d.Deadline.Set(q.Deadline)
	d.LatencyBudget.Set(q.LatencyBudget)
	d.Liveliness.Set(q.Liveliness)
	d.Reliability.Set(q.Reliability)
	d.Ownership.Set(q.Ownership)
	d.DestinationOrder.Set(q.DestinationOrder)
	d.TimeBasedFilter.Set(q.TimeBasedFilter)
	d.History.Set(q.History)
	d.ResourceLimits.Set(q.ResourceLimits)
	d.DataRepresentation.Set(q.DataRepresentation)
	d.TypeConsistency.Set(q.TypeConsistencyEnforcement)
	d.Presentation.Set(subscriber.Presentation)
	if len(q.UserData.Value) > 0 {
		d.UserData.Set(q.UserData)
	}
	if len(subscriber.Partition.Names) > 0 {
		d.Partition.Set(subscriber.Partition)
	}
	if len(subscriber.GroupData.Value) > 0 {
		d.GroupData.Set(subscriber.GroupData)
	}
	d.Properties = q.Property
	return d, nil
}

// Kind returns KindSubscription.
func (d *SubscriptionBuiltinTopicData) Kind() Kind {
	return KindSubscription
}

// BuiltinTopicKey returns the key of reader.
func (d *SubscriptionBuiltinTopicData) BuiltinTopicKey() rtps.BuiltinTopicKey {
	return d.Key
}

// GUID returns GUID of reader.
func (d *SubscriptionBuiltinTopicData) GUID() rtps.GUID {
	return d.Key.GUID()
}

// Equal compares keys only.
func (d *SubscriptionBuiltinTopicData) Equal(other *SubscriptionBuiltinTopicData) bool {
	return d.Key == other.Key
}

// QosChanged returns ids of policies which differ.
func (d *SubscriptionBuiltinTopicData) QosChanged(other *SubscriptionBuiltinTopicData) []qos.PolicyID {
	var diff qosDiff
	diffPolicy(&diff, qos.PolicyIDDurability, d.Durability, other.Durability)
	diffPolicy(&diff, qos.PolicyIDDeadline, d.Deadline, other.Deadline)
	diffPolicy(&diff, qos.PolicyIDLatencyBudget, d.LatencyBudget, other.LatencyBudget)
	diffPolicy(&diff, qos.PolicyIDLiveliness, d.Liveliness, other.Liveliness)
	diffPolicy(&diff, qos.PolicyIDReliability, d.Reliability, other.Reliability)
	diffPolicy(&diff, qos.PolicyIDOwnership, d.Ownership, other.Ownership)
	diffPolicy(&diff, qos.PolicyIDDestinationOrder, d.DestinationOrder, other.DestinationOrder)
	diffPolicy(&diff, qos.PolicyIDUserData, d.UserData, other.UserData)
	diffPolicy(&diff, qos.PolicyIDTimeBasedFilter, d.TimeBasedFilter, other.TimeBasedFilter)
	diffPolicy(&diff, qos.PolicyIDPresentation, d.Presentation, other.Presentation)
	diffPolicy(&diff, qos.PolicyIDPartition, d.Partition, other.Partition)
	diffPolicy(&diff, qos.PolicyIDTopicData, d.TopicData, other.TopicData)
	diffPolicy(&diff, qos.PolicyIDGroupData, d.GroupData, other.GroupData)
	diffPolicy(&diff, qos.PolicyIDHistory, d.History, other.History)
	diffPolicy(&diff, qos.PolicyIDResourceLimits, d.ResourceLimits, other.ResourceLimits)
	diffPolicy(&diff, qos.PolicyIDDataRepresentation, d.DataRepresentation, other.DataRepresentation)
	diffPolicy(&diff, qos.PolicyIDTypeConsistencyEnforcement, d.TypeConsistency, other.TypeConsistency)
	if !d.Properties.Equal(other.Properties) {
		diff = append(diff, qos.PolicyIDProperty)
	}
	return diff
}

// MarshalParameterList encodes subscription data.
func (d *SubscriptionBuiltinTopicData) MarshalParameterList(opts ...cdr.Option) ([]byte, error) {
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
	writeOptional(e, PIDDeadline, d.Deadline, writeDeadline)
	writeOptional(e, PIDLatencyBudget, d.LatencyBudget, writeLatencyBudget)
	writeOptional(e, PIDLiveliness, d.Liveliness, writeLiveliness)
	writeOptional(e, PIDReliability, d.Reliability, writeReliability)
	writeOptional(e, PIDOwnership, d.Ownership, writeOwnership)
	writeOptional(e, PIDDestinationOrder, d.DestinationOrder, writeDestinationOrder)
	writeOptional(e, PIDUserData, d.UserData, writeUserData)
	writeOptional(e, PIDTimeBasedFilter, d.TimeBasedFilter, writeTimeBasedFilter)
	writeOptional(e, PIDPresentation, d.Presentation, writePresentation)
	writeOptional(e, PIDPartition, d.Partition, writePartition)
	writeOptional(e, PIDTopicData, d.TopicData, writeTopicData)
	writeOptional(e, PIDGroupData, d.GroupData, writeGroupData)
	writeOptional(e, PIDHistory, d.History, writeHistory)
	writeOptional(e, PIDResourceLimits, d.ResourceLimits, writeResourceLimits)
	writeOptional(e, PIDDataRepresentation, d.DataRepresentation, writeDataRepresentation)
	writeOptional(e, PIDTypeConsistency, d.TypeConsistency, writeTypeConsistency)
	writeLocators(e, PIDUnicastLocator, d.UnicastLocators)
	writeLocators(e, PIDMulticastLocator, d.MulticastLocators)
	if d.ExpectsInlineQos {
		e.write(PIDExpectsInlineQos, func(w *cdr.Writer) {
			w.Bool(true)
		})
	}
	if len(d.Properties.Public()) > 0 {
		e.write(PIDPropertyList, func(w *cdr.Writer) {
			writePropertyList(w, d.Properties)
		})
	}
	writeOptional(e, PIDEntityName, d.EntityName, writeString)
	return e.bytes()
}

// UnmarshalParameterList decodes subscription data.
func (d *SubscriptionBuiltinTopicData) UnmarshalParameterList(b []byte, opts ...cdr.Option) error {
	return decode(b, d, func() SubscriptionBuiltinTopicData {
		return *NewSubscriptionBuiltinTopicData()
	}, (*SubscriptionBuiltinTopicData).decodeParameter, (*SubscriptionBuiltinTopicData).validate, opts)
}

func (d *SubscriptionBuiltinTopicData) decodeParameter(pid cdr.ParameterID, r *cdr.Reader) (bool, error) {
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
	case PIDDeadline:
		err = readOptional(&d.Deadline, r, readDeadline)
	case PIDLatencyBudget:
		err = readOptional(&d.LatencyBudget, r, readLatencyBudget)
	case PIDLiveliness:
		err = readOptional(&d.Liveliness, r, readLiveliness)
	case PIDReliability:
		err = readOptional(&d.Reliability, r, readReliability)
	case PIDOwnership:
		err = readOptional(&d.Ownership, r, readOwnership)
	case PIDDestinationOrder:
		err = readOptional(&d.DestinationOrder, r, readDestinationOrder)
	case PIDUserData:
		err = readOptional(&d.UserData, r, readUserData)
	case PIDTimeBasedFilter:
		err = readOptional(&d.TimeBasedFilter, r, readTimeBasedFilter)
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
	case PIDDataRepresentation:
		err = readOptional(&d.DataRepresentation, r, readDataRepresentation)
	case PIDTypeConsistency:
		err = readOptional(&d.TypeConsistency, r, readTypeConsistency)
	case PIDUnicastLocator:
		err = appendLocator(&d.UnicastLocators, r)
	case PIDMulticastLocator:
		err = appendLocator(&d.MulticastLocators, r)
	case PIDExpectsInlineQos:
		d.ExpectsInlineQos, err = r.Bool()
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

func (d *SubscriptionBuiltinTopicData) validate() error {
	if d.Key.IsUnknown() {
		return errors.Wrap(cdr.ErrMalformedPayload, "endpoint GUID is missing")
	}
	if d.ParticipantKey.IsUnknown() {
		d.ParticipantKey = rtps.BuiltinTopicKeyFromGUID(d.Key.GUID().ParticipantGUID())
	}
	return nil
}
