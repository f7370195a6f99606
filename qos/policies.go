package qos

import (
	"bytes"
	"slices"

	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// LengthUnlimited marks resource limit without a bound.
const LengthUnlimited int32 = -1

// DurabilityKind controls whether data outlives the writer which produced it.
type DurabilityKind uint32

// Durability kinds, ordered from the weakest to the strongest.
const (
	DurabilityVolatile DurabilityKind = iota
	DurabilityTransientLocal
	DurabilityTransient
	DurabilityPersistent
)

// Durability controls whether late-joining readers receive previously published data.
type Durability struct {
	Kind DurabilityKind
}

// DefaultDurability returns default durability policy.
func DefaultDurability() Durability {
	return Durability{Kind: DurabilityVolatile}
}

// Name returns the name of the policy.
func (Durability) Name() string { return NameDurability }

// ID returns the id of the policy.
func (Durability) ID() PolicyID { return PolicyIDDurability }

// Equal compares policies.
func (p Durability) Equal(other Durability) bool { return p == other }

// HistoryKind controls how many samples are kept per instance.
type HistoryKind uint32

// History kinds.
const (
	HistoryKeepLast HistoryKind = iota
	HistoryKeepAll
)

// History controls how many samples are kept per instance.
type History struct {
	Kind  HistoryKind
	Depth int32
}

// DefaultHistory returns default history policy.
func DefaultHistory() History {
	return History{Kind: HistoryKeepLast, Depth: 1}
}

// KeepLast returns history keeping the last depth samples.
func KeepLast(depth int32) History {
	return History{Kind: HistoryKeepLast, Depth: depth}
}

// KeepAll returns history keeping all samples.
func KeepAll() History {
	return History{Kind: HistoryKeepAll, Depth: 1}
}

// Name returns the name of the policy.
func (History) Name() string { return NameHistory }

// ID returns the id of the policy.
func (History) ID() PolicyID { return PolicyIDHistory }

// Equal compares policies.
func (p History) Equal(other History) bool { return p == other }

// DurabilityService configures the service keeping transient and persistent data.
type DurabilityService struct {
	ServiceCleanupDelay   rtps.Duration
	History               History
	MaxSamples            int32
	MaxInstances          int32
	MaxSamplesPerInstance int32
}

// DefaultDurabilityService returns default durability service policy.
func DefaultDurabilityService() DurabilityService {
	return DurabilityService{
		ServiceCleanupDelay:   rtps.DurationZero,
		History:               DefaultHistory(),
		MaxSamples:            LengthUnlimited,
		MaxInstances:          LengthUnlimited,
		MaxSamplesPerInstance: LengthUnlimited,
	}
}

// Name returns the name of the policy.
func (DurabilityService) Name() string { return NameDurabilityService }

// ID returns the id of the policy.
func (DurabilityService) ID() PolicyID { return PolicyIDDurabilityService }

// Equal compares policies.
func (p DurabilityService) Equal(other DurabilityService) bool { return p == other }

// Deadline is the maximum period between samples of an instance.
type Deadline struct {
	Period rtps.Duration
}

// DefaultDeadline returns default deadline policy.
func DefaultDeadline() Deadline {
	return Deadline{Period: rtps.DurationInfinite}
}

// Name returns the name of the policy.
func (Deadline) Name() string { return NameDeadline }

// ID returns the id of the policy.
func (Deadline) ID() PolicyID { return PolicyIDDeadline }

// Equal compares policies.
func (p Deadline) Equal(other Deadline) bool { return p == other }

// LatencyBudget is a hint about the acceptable delivery delay.
type LatencyBudget struct {
	Duration rtps.Duration
}

// DefaultLatencyBudget returns default latency budget policy.
func DefaultLatencyBudget() LatencyBudget {
	return LatencyBudget{Duration: rtps.DurationZero}
}

// Name returns the name of the policy.
func (LatencyBudget) Name() string { return NameLatencyBudget }

// ID returns the id of the policy.
func (LatencyBudget) ID() PolicyID { return PolicyIDLatencyBudget }

// Equal compares policies.
func (p LatencyBudget) Equal(other LatencyBudget) bool { return p == other }

// LivelinessKind defines how writer liveliness is asserted.
type LivelinessKind uint32

// Liveliness kinds, ordered from the weakest to the strongest.
const (
	LivelinessAutomatic LivelinessKind = iota
	LivelinessManualByParticipant
	LivelinessManualByTopic
)

// Liveliness defines how writer liveliness is asserted and detected.
type Liveliness struct {
	Kind               LivelinessKind
	LeaseDuration      rtps.Duration
	AnnouncementPeriod rtps.Duration
}

// DefaultLiveliness returns default liveliness policy.
func DefaultLiveliness() Liveliness {
	return Liveliness{
		Kind:               LivelinessAutomatic,
		LeaseDuration:      rtps.DurationInfinite,
		AnnouncementPeriod: rtps.DurationInfinite,
	}
}

// Name returns the name of the policy.
func (Liveliness) Name() string { return NameLiveliness }

// ID returns the id of the policy.
func (Liveliness) ID() PolicyID { return PolicyIDLiveliness }

// Equal compares policies.
func (p Liveliness) Equal(other Liveliness) bool { return p == other }

// ReliabilityKind defines delivery guarantees. Values are the ones used on the wire.
type ReliabilityKind uint32

// Reliability kinds.
const (
	ReliabilityBestEffort ReliabilityKind = 1
	ReliabilityReliable   ReliabilityKind = 2
)

// defaultMaxBlockingTime is the max blocking time of reliable writers.
var defaultMaxBlockingTime = rtps.DurationFromMilliseconds(100)

// Reliability defines delivery guarantees.
type Reliability struct {
	Kind            ReliabilityKind
	MaxBlockingTime rtps.Duration
}

// BestEffort returns best-effort reliability with the given blocking time.
func BestEffort(maxBlockingTime rtps.Duration) Reliability {
	return Reliability{Kind: ReliabilityBestEffort, MaxBlockingTime: maxBlockingTime}
}

// Reliable returns reliable reliability with the given blocking time.
func Reliable(maxBlockingTime rtps.Duration) Reliability {
	return Reliability{Kind: ReliabilityReliable, MaxBlockingTime: maxBlockingTime}
}

// Name returns the name of the policy.
func (Reliability) Name() string { return NameReliability }

// ID returns the id of the policy.
func (Reliability) ID() PolicyID { return PolicyIDReliability }

// Equal compares policies.
func (p Reliability) Equal(other Reliability) bool { return p == other }

// DestinationOrderKind defines the order in which samples are applied.
type DestinationOrderKind uint32

// Destination order kinds.
const (
	DestinationOrderByReceptionTimestamp DestinationOrderKind = iota
	DestinationOrderBySourceTimestamp
)

// DestinationOrder defines the order in which samples are applied.
type DestinationOrder struct {
	Kind DestinationOrderKind
}

// DefaultDestinationOrder returns default destination order policy.
func DefaultDestinationOrder() DestinationOrder {
	return DestinationOrder{Kind: DestinationOrderByReceptionTimestamp}
}

// Name returns the name of the policy.
func (DestinationOrder) Name() string { return NameDestinationOrder }

// ID returns the id of the policy.
func (DestinationOrder) ID() PolicyID { return PolicyIDDestinationOrder }

// Equal compares policies.
func (p DestinationOrder) Equal(other DestinationOrder) bool { return p == other }

// ResourceLimits bounds the memory used by an entity.
// AllocatedSamples and ExtraSamples are local preallocation hints and never sent.
type ResourceLimits struct {
	MaxSamples            int32
	MaxInstances          int32
	MaxSamplesPerInstance int32
	AllocatedSamples      int32
	ExtraSamples          int32
}

// DefaultResourceLimits returns default resource limits policy.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxSamples:            LengthUnlimited,
		MaxInstances:          LengthUnlimited,
		MaxSamplesPerInstance: LengthUnlimited,
		AllocatedSamples:      100,
		ExtraSamples:          1,
	}
}

// Name returns the name of the policy.
func (ResourceLimits) Name() string { return NameResourceLimits }

// ID returns the id of the policy.
func (ResourceLimits) ID() PolicyID { return PolicyIDResourceLimits }

// Equal compares policies.
func (p ResourceLimits) Equal(other ResourceLimits) bool { return p == other }

// TransportPriority is a hint for the transport.
type TransportPriority struct {
	Value int32
}

// Name returns the name of the policy.
func (TransportPriority) Name() string { return NameTransportPriority }

// ID returns the id of the policy.
func (TransportPriority) ID() PolicyID { return PolicyIDTransportPriority }

// Equal compares policies.
func (p TransportPriority) Equal(other TransportPriority) bool { return p == other }

// Lifespan is the time after which written samples expire.
type Lifespan struct {
	Duration rtps.Duration
}

// DefaultLifespan returns default lifespan policy.
func DefaultLifespan() Lifespan {
	return Lifespan{Duration: rtps.DurationInfinite}
}

// Name returns the name of the policy.
func (Lifespan) Name() string { return NameLifespan }

// ID returns the id of the policy.
func (Lifespan) ID() PolicyID { return PolicyIDLifespan }

// Equal compares policies.
func (p Lifespan) Equal(other Lifespan) bool { return p == other }

// UserData is opaque application data attached to an entity.
type UserData struct {
	Value []byte
}

// Name returns the name of the policy.
func (UserData) Name() string { return NameUserData }

// ID returns the id of the policy.
func (UserData) ID() PolicyID { return PolicyIDUserData }

// Equal compares policies.
func (p UserData) Equal(other UserData) bool { return bytes.Equal(p.Value, other.Value) }

// TopicData is opaque application data attached to a topic.
type TopicData struct {
	Value []byte
}

// Name returns the name of the policy.
func (TopicData) Name() string { return NameTopicData }

// ID returns the id of the policy.
func (TopicData) ID() PolicyID { return PolicyIDTopicData }

// Equal compares policies.
func (p TopicData) Equal(other TopicData) bool { return bytes.Equal(p.Value, other.Value) }

// GroupData is opaque application data attached to a publisher or subscriber.
type GroupData struct {
	Value []byte
}

// Name returns the name of the policy.
func (GroupData) Name() string { return NameGroupData }

// ID returns the id of the policy.
func (GroupData) ID() PolicyID { return PolicyIDGroupData }

// Equal compares policies.
func (p GroupData) Equal(other GroupData) bool { return bytes.Equal(p.Value, other.Value) }

// OwnershipKind defines whether many writers may update the same instance.
type OwnershipKind uint32

// Ownership kinds.
const (
	OwnershipShared OwnershipKind = iota
	OwnershipExclusive
)

// Ownership defines whether many writers may update the same instance.
type Ownership struct {
	Kind OwnershipKind
}

// Name returns the name of the policy.
func (Ownership) Name() string { return NameOwnership }

// ID returns the id of the policy.
func (Ownership) ID() PolicyID { return PolicyIDOwnership }

// Equal compares policies.
func (p Ownership) Equal(other Ownership) bool { return p == other }

// OwnershipStrength decides which writer owns an exclusive instance.
type OwnershipStrength struct {
	Value int32
}

// Name returns the name of the policy.
func (OwnershipStrength) Name() string { return NameOwnershipStrength }

// ID returns the id of the policy.
func (OwnershipStrength) ID() PolicyID { return PolicyIDOwnershipStrength }

// Equal compares policies.
func (p OwnershipStrength) Equal(other OwnershipStrength) bool { return p == other }

// PresentationAccessScope defines the scope of coherent and ordered access.
type PresentationAccessScope uint32

// Presentation access scopes, ordered from the narrowest to the widest.
const (
	PresentationInstance PresentationAccessScope = iota
	PresentationTopic
	PresentationGroup
)

// Presentation defines how changes are presented to the reader.
type Presentation struct {
	AccessScope    PresentationAccessScope
	CoherentAccess bool
	OrderedAccess  bool
}

// Name returns the name of the policy.
func (Presentation) Name() string { return NamePresentation }

// ID returns the id of the policy.
func (Presentation) ID() PolicyID { return PolicyIDPresentation }

// Equal compares policies.
func (p Presentation) Equal(other Presentation) bool { return p == other }

// Partition lists logical partitions an entity belongs to.
type Partition struct {
	Names []string
}

// Name returns the name of the policy.
func (Partition) Name() string { return NamePartition }

// ID returns the id of the policy.
func (Partition) ID() PolicyID { return PolicyIDPartition }

// Equal compares policies.
func (p Partition) Equal(other Partition) bool { return slices.Equal(p.Names, other.Names) }

// TimeBasedFilter is the minimum separation between samples delivered to a reader.
type TimeBasedFilter struct {
	MinimumSeparation rtps.Duration
}

// Name returns the name of the policy.
func (TimeBasedFilter) Name() string { return NameTimeBasedFilter }

// ID returns the id of the policy.
func (TimeBasedFilter) ID() PolicyID { return PolicyIDTimeBasedFilter }

// Equal compares policies.
func (p TimeBasedFilter) Equal(other TimeBasedFilter) bool { return p == other }

// WriterDataLifecycle controls disposal of instances on unregistration.
type WriterDataLifecycle struct {
	AutodisposeUnregisteredInstances bool
}

// DefaultWriterDataLifecycle returns default writer data lifecycle policy.
func DefaultWriterDataLifecycle() WriterDataLifecycle {
	return WriterDataLifecycle{AutodisposeUnregisteredInstances: true}
}

// Name returns the name of the policy.
func (WriterDataLifecycle) Name() string { return NameWriterDataLifecycle }

// ID returns the id of the policy.
func (WriterDataLifecycle) ID() PolicyID { return PolicyIDWriterDataLifecycle }

// Equal compares policies.
func (p WriterDataLifecycle) Equal(other WriterDataLifecycle) bool { return p == other }

// ReaderDataLifecycle controls purging of instances without writers or disposed.
type ReaderDataLifecycle struct {
	AutopurgeNoWriterSamplesDelay rtps.Duration
	AutopurgeDisposedSamplesDelay rtps.Duration
}

// DefaultReaderDataLifecycle returns default reader data lifecycle policy.
func DefaultReaderDataLifecycle() ReaderDataLifecycle {
	return ReaderDataLifecycle{
		AutopurgeNoWriterSamplesDelay: rtps.DurationInfinite,
		AutopurgeDisposedSamplesDelay: rtps.DurationInfinite,
	}
}

// Name returns the name of the policy.
func (ReaderDataLifecycle) Name() string { return NameReaderDataLifecycle }

// ID returns the id of the policy.
func (ReaderDataLifecycle) ID() PolicyID { return PolicyIDReaderDataLifecycle }

// Equal compares policies.
func (p ReaderDataLifecycle) Equal(other ReaderDataLifecycle) bool { return p == other }

// EntityFactory controls whether created entities are enabled automatically.
type EntityFactory struct {
	AutoenableCreatedEntities bool
}

// DefaultEntityFactory returns default entity factory policy.
func DefaultEntityFactory() EntityFactory {
	return EntityFactory{AutoenableCreatedEntities: true}
}

// Name returns the name of the policy.
func (EntityFactory) Name() string { return NameEntityFactory }

// ID returns the id of the policy.
func (EntityFactory) ID() PolicyID { return PolicyIDEntityFactory }

// Equal compares policies.
func (p EntityFactory) Equal(other EntityFactory) bool { return p == other }

// DataRepresentationID identifies a data representation.
type DataRepresentationID int16

// Data representations.
const (
	XCDR  DataRepresentationID = 0
	XML   DataRepresentationID = 1
	XCDR2 DataRepresentationID = 2
)

// DataRepresentation lists representations supported by an endpoint.
// A writer uses the first one.
type DataRepresentation struct {
	Value []DataRepresentationID
}

// DefaultDataRepresentation returns default data representation policy.
func DefaultDataRepresentation() DataRepresentation {
	return DataRepresentation{Value: []DataRepresentationID{XCDR}}
}

// Name returns the name of the policy.
func (DataRepresentation) Name() string { return NameDataRepresentation }

// ID returns the id of the policy.
func (DataRepresentation) ID() PolicyID { return PolicyIDDataRepresentation }

// Equal compares policies.
func (p DataRepresentation) Equal(other DataRepresentation) bool {
	return slices.Equal(p.Value, other.Value)
}

// TypeConsistencyKind defines whether a reader accepts a different but assignable type.
type TypeConsistencyKind uint16

// Type consistency kinds.
const (
	DisallowTypeCoercion TypeConsistencyKind = iota
	AllowTypeCoercion
)

// TypeConsistencyEnforcement defines rules of type assignability.
type TypeConsistencyEnforcement struct {
	Kind                 TypeConsistencyKind
	IgnoreSequenceBounds bool
	IgnoreStringBounds   bool
	IgnoreMemberNames    bool
	PreventTypeWidening  bool
	ForceTypeValidation  bool
}

// DefaultTypeConsistencyEnforcement returns default type consistency enforcement policy.
func DefaultTypeConsistencyEnforcement() TypeConsistencyEnforcement {
	return TypeConsistencyEnforcement{
		Kind:                 AllowTypeCoercion,
		IgnoreSequenceBounds: true,
		IgnoreStringBounds:   true,
	}
}

// Name returns the name of the policy.
func (TypeConsistencyEnforcement) Name() string { return NameTypeConsistencyEnforcement }

// ID returns the id of the policy.
func (TypeConsistencyEnforcement) ID() PolicyID { return PolicyIDTypeConsistencyEnforcement }

// Equal compares policies.
func (p TypeConsistencyEnforcement) Equal(other TypeConsistencyEnforcement) bool { return p == other }
