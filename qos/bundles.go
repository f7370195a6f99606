package qos

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// ErrInconsistentPolicy is returned when policies of a bundle contradict each other.
var ErrInconsistentPolicy = errors.New("inconsistent policy")

// DomainParticipantQos is the Qos of a domain participant.
type DomainParticipantQos struct {
	UserData      UserData
	EntityFactory EntityFactory
	Property      Property
}

// DefaultDomainParticipantQos returns default participant Qos.
func DefaultDomainParticipantQos() DomainParticipantQos {
	return DomainParticipantQos{
		EntityFactory: DefaultEntityFactory(),
	}
}

// TopicQos is the Qos of a topic.
type TopicQos struct {
	TopicData          TopicData
	Durability         Durability
	DurabilityService  DurabilityService
	Deadline           Deadline
	LatencyBudget      LatencyBudget
	Liveliness         Liveliness
	Reliability        Reliability
	DestinationOrder   DestinationOrder
	History            History
	ResourceLimits     ResourceLimits
	TransportPriority  TransportPriority
	Lifespan           Lifespan
	Ownership          Ownership
	DataRepresentation DataRepresentation
}

// DefaultTopicQos returns default topic Qos.
func DefaultTopicQos() TopicQos {
	return TopicQos{
		Durability:         DefaultDurability(),
		DurabilityService:  DefaultDurabilityService(),
		Deadline:           DefaultDeadline(),
		LatencyBudget:      DefaultLatencyBudget(),
		Liveliness:         DefaultLiveliness(),
		Reliability:        BestEffort(defaultMaxBlockingTime),
		DestinationOrder:   DefaultDestinationOrder(),
		History:            DefaultHistory(),
		ResourceLimits:     DefaultResourceLimits(),
		Lifespan:           DefaultLifespan(),
		DataRepresentation: DefaultDataRepresentation(),
	}
}

// Validate checks consistency of policies.
func (q TopicQos) Validate() error {
	return multierr.Combine(
		validateHistory(q.History, q.ResourceLimits),
		validateResourceLimits(q.ResourceLimits),
		validateDurabilityService(q.DurabilityService),
	)
}

// PublisherQos is the Qos of a publisher.
type PublisherQos struct {
	Presentation  Presentation
	Partition     Partition
	GroupData     GroupData
	EntityFactory EntityFactory
}

// DefaultPublisherQos returns default publisher Qos.
func DefaultPublisherQos() PublisherQos {
	return PublisherQos{
		EntityFactory: DefaultEntityFactory(),
	}
}

// SubscriberQos is the Qos of a subscriber.
type SubscriberQos struct {
	Presentation  Presentation
	Partition     Partition
	GroupData     GroupData
	EntityFactory EntityFactory
}

// DefaultSubscriberQos returns default subscriber Qos.
func DefaultSubscriberQos() SubscriberQos {
	return SubscriberQos{
		EntityFactory: DefaultEntityFactory(),
	}
}

// DataWriterQos is the Qos of a data writer.
type DataWriterQos struct {
	Durability          Durability
	DurabilityService   DurabilityService
	Deadline            Deadline
	LatencyBudget       LatencyBudget
	Liveliness          Liveliness
	Reliability         Reliability
	DestinationOrder    DestinationOrder
	History             History
	ResourceLimits      ResourceLimits
	TransportPriority   TransportPriority
	Lifespan            Lifespan
	UserData            UserData
	Ownership           Ownership
	OwnershipStrength   OwnershipStrength
	WriterDataLifecycle WriterDataLifecycle
	Property            Property
	DataRepresentation  DataRepresentation
}

// DefaultDataWriterQos returns default data writer Qos.
func DefaultDataWriterQos() DataWriterQos {
	return DataWriterQos{
		Durability:          DefaultDurability(),
		DurabilityService:   DefaultDurabilityService(),
		Deadline:            DefaultDeadline(),
		LatencyBudget:       DefaultLatencyBudget(),
		Liveliness:          DefaultLiveliness(),
		Reliability:         Reliable(defaultMaxBlockingTime),
		DestinationOrder:    DefaultDestinationOrder(),
		History:             DefaultHistory(),
		ResourceLimits:      DefaultResourceLimits(),
		Lifespan:            DefaultLifespan(),
		WriterDataLifecycle: DefaultWriterDataLifecycle(),
		DataRepresentation:  DefaultDataRepresentation(),
	}
}

// Validate checks consistency of policies.
func (q DataWriterQos) Validate() error {
	return multierr.Combine(
		validateHistory(q.History, q.ResourceLimits),
		validateResourceLimits(q.ResourceLimits),
		validateDurabilityService(q.DurabilityService),
		validateLiveliness(q.Liveliness),
	)
}

// DataReaderQos is the Qos of a data reader.
type DataReaderQos struct {
	Durability                 Durability
	Deadline                   Deadline
	LatencyBudget              LatencyBudget
	Liveliness                 Liveliness
	Reliability                Reliability
	DestinationOrder           DestinationOrder
	History                    History
	ResourceLimits             ResourceLimits
	UserData                   UserData
	Ownership                  Ownership
	TimeBasedFilter            TimeBasedFilter
	ReaderDataLifecycle        ReaderDataLifecycle
	Property                   Property
	DataRepresentation         DataRepresentation
	TypeConsistencyEnforcement TypeConsistencyEnforcement
}

// DefaultDataReaderQos returns default data reader Qos.
func DefaultDataReaderQos() DataReaderQos {
	return DataReaderQos{
		Durability:                 DefaultDurability(),
		Deadline:                   DefaultDeadline(),
		LatencyBudget:              DefaultLatencyBudget(),
		Liveliness:                 DefaultLiveliness(),
		Reliability:                BestEffort(defaultMaxBlockingTime),
		DestinationOrder:           DefaultDestinationOrder(),
		History:                    DefaultHistory(),
		ResourceLimits:             DefaultResourceLimits(),
		ReaderDataLifecycle:        DefaultReaderDataLifecycle(),
		DataRepresentation:         DefaultDataRepresentation(),
		TypeConsistencyEnforcement: DefaultTypeConsistencyEnforcement(),
	}
}

// Validate checks consistency of policies.
func (q DataReaderQos) Validate() error {
	return multierr.Combine(
		validateHistory(q.History, q.ResourceLimits),
		validateResourceLimits(q.ResourceLimits),
		validateLiveliness(q.Liveliness),
		validateTimeBasedFilter(q.TimeBasedFilter, q.Deadline),
	)
}

func validateHistory(h History, limits ResourceLimits) error {
	if h.Kind != HistoryKeepLast {
		return nil
	}
	if h.Depth <= 0 {
		return errors.Wrapf(ErrInconsistentPolicy, "history depth %d must be positive", h.Depth)
	}
	if limits.MaxSamplesPerInstance != LengthUnlimited && h.Depth > limits.MaxSamplesPerInstance {
		return errors.Wrapf(ErrInconsistentPolicy, "history depth %d exceeds max samples per instance %d",
			h.Depth, limits.MaxSamplesPerInstance)
	}
	return nil
}

func validateResourceLimits(limits ResourceLimits) error {
	if limits.MaxSamples != LengthUnlimited && limits.MaxSamplesPerInstance != LengthUnlimited &&
		limits.MaxSamples < limits.MaxSamplesPerInstance {
		return errors.Wrapf(ErrInconsistentPolicy, "max samples %d is lower than max samples per instance %d",
			limits.MaxSamples, limits.MaxSamplesPerInstance)
	}
	return nil
}

func validateDurabilityService(ds DurabilityService) error {
	return validateHistory(ds.History, ResourceLimits{
		MaxSamples:            ds.MaxSamples,
		MaxInstances:          ds.MaxInstances,
		MaxSamplesPerInstance: ds.MaxSamplesPerInstance,
	})
}

func validateLiveliness(l Liveliness) error {
	if l.LeaseDuration.Compare(rtps.DurationZero) <= 0 {
		return errors.Wrap(ErrInconsistentPolicy, "liveliness lease duration must be positive")
	}
	return nil
}

func validateTimeBasedFilter(f TimeBasedFilter, d Deadline) error {
	if d.Period.Less(f.MinimumSeparation) {
		return errors.Wrapf(ErrInconsistentPolicy, "deadline %s is shorter than time based filter %s",
			d.Period, f.MinimumSeparation)
	}
	return nil
}
