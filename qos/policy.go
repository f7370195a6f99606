// Package qos defines the QoS policy catalog, the Qos bundles of DDS entities and the
// offered/requested compatibility rules used when matching writers with readers.
package qos

import "fmt"

// Policy is implemented by every QoS policy value.
type Policy interface {
	// Name returns the name of the policy.
	Name() string

	// ID returns the id of the policy.
	ID() PolicyID
}

// PolicyID identifies a QoS policy.
type PolicyID uint32

// Policy ids.
const (
	PolicyIDInvalid                    PolicyID = 0
	PolicyIDUserData                   PolicyID = 1
	PolicyIDDurability                 PolicyID = 2
	PolicyIDPresentation               PolicyID = 3
	PolicyIDDeadline                   PolicyID = 4
	PolicyIDLatencyBudget              PolicyID = 5
	PolicyIDOwnership                  PolicyID = 6
	PolicyIDOwnershipStrength          PolicyID = 7
	PolicyIDLiveliness                 PolicyID = 8
	PolicyIDTimeBasedFilter            PolicyID = 9
	PolicyIDPartition                  PolicyID = 10
	PolicyIDReliability                PolicyID = 11
	PolicyIDDestinationOrder           PolicyID = 12
	PolicyIDHistory                    PolicyID = 13
	PolicyIDResourceLimits             PolicyID = 14
	PolicyIDEntityFactory              PolicyID = 15
	PolicyIDWriterDataLifecycle        PolicyID = 16
	PolicyIDReaderDataLifecycle        PolicyID = 17
	PolicyIDTopicData                  PolicyID = 18
	PolicyIDGroupData                  PolicyID = 19
	PolicyIDTransportPriority          PolicyID = 20
	PolicyIDLifespan                   PolicyID = 21
	PolicyIDDurabilityService          PolicyID = 22
	PolicyIDDataRepresentation         PolicyID = 23
	PolicyIDTypeConsistencyEnforcement PolicyID = 24
	PolicyIDProperty                   PolicyID = 25
)

// Policy names.
const (
	NameUserData                   = "UserData"
	NameDurability                 = "Durability"
	NamePresentation               = "Presentation"
	NameDeadline                   = "Deadline"
	NameLatencyBudget              = "LatencyBudget"
	NameOwnership                  = "Ownership"
	NameOwnershipStrength          = "OwnershipStrength"
	NameLiveliness                 = "Liveliness"
	NameTimeBasedFilter            = "TimeBasedFilter"
	NamePartition                  = "Partition"
	NameReliability                = "Reliability"
	NameDestinationOrder           = "DestinationOrder"
	NameHistory                    = "History"
	NameResourceLimits             = "ResourceLimits"
	NameEntityFactory              = "EntityFactory"
	NameWriterDataLifecycle        = "WriterDataLifecycle"
	NameReaderDataLifecycle        = "ReaderDataLifecycle"
	NameTopicData                  = "TopicData"
	NameGroupData                  = "GroupData"
	NameTransportPriority          = "TransportPriority"
	NameLifespan                   = "Lifespan"
	NameDurabilityService          = "DurabilityService"
	NameDataRepresentation         = "DataRepresentation"
	NameTypeConsistencyEnforcement = "TypeConsistencyEnforcement"
	NameProperty                   = "Property"
)

// PolicyName returns the name of the policy with the given id.
func PolicyName(id PolicyID) string {
	switch id {
	case PolicyIDUserData:
		return NameUserData
	case PolicyIDDurability:
		return NameDurability
	case PolicyIDPresentation:
		return NamePresentation
	case PolicyIDDeadline:
		return NameDeadline
	case PolicyIDLatencyBudget:
		return NameLatencyBudget
	case PolicyIDOwnership:
		return NameOwnership
	case PolicyIDOwnershipStrength:
		return NameOwnershipStrength
	case PolicyIDLiveliness:
		return NameLiveliness
	case PolicyIDTimeBasedFilter:
		return NameTimeBasedFilter
	case PolicyIDPartition:
		return NamePartition
	case PolicyIDReliability:
		return NameReliability
	case PolicyIDDestinationOrder:
		return NameDestinationOrder
	case PolicyIDHistory:
		return NameHistory
	case PolicyIDResourceLimits:
		return NameResourceLimits
	case PolicyIDEntityFactory:
		return NameEntityFactory
	case PolicyIDWriterDataLifecycle:
		return NameWriterDataLifecycle
	case PolicyIDReaderDataLifecycle:
		return NameReaderDataLifecycle
	case PolicyIDTopicData:
		return NameTopicData
	case PolicyIDGroupData:
		return NameGroupData
	case PolicyIDTransportPriority:
		return NameTransportPriority
	case PolicyIDLifespan:
		return NameLifespan
	case PolicyIDDurabilityService:
		return NameDurabilityService
	case PolicyIDDataRepresentation:
		return NameDataRepresentation
	case PolicyIDTypeConsistencyEnforcement:
		return NameTypeConsistencyEnforcement
	case PolicyIDProperty:
		return NameProperty
	default:
		return ""
	}
}

func (id PolicyID) String() string {
	if name := PolicyName(id); name != "" {
		return name
	}
	return fmt.Sprintf("PolicyID(%d)", uint32(id))
}

// Optional holds a value which may be absent.
// An absent Optional still carries a default value.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Default returns absent optional carrying the default value.
func Default[T any](v T) Optional[T] {
	return Optional[T]{Value: v}
}

// Some returns present optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// Set stores the value and marks it present.
func (o *Optional[T]) Set(v T) {
	o.Value = v
	o.Present = true
}

// Reset marks the value absent, keeping it as the default.
func (o *Optional[T]) Reset() {
	o.Present = false
}

// Get returns the value and its presence.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present
}
