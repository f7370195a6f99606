package builtin

import (
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
)

// MatchResult is the outcome of matching writer with reader.
type MatchResult struct {
	// TopicMismatch is set when topic or type names differ.
	TopicMismatch bool

	// PartitionMismatch is set when writer and reader share no partition.
	PartitionMismatch bool

	// IncompatiblePolicies lists policies offered by writer which don't satisfy the reader.
	IncompatiblePolicies []qos.PolicyID
}

// Matched returns true if writer delivers data to the reader.
func (r MatchResult) Matched() bool {
	return !r.TopicMismatch && !r.PartitionMismatch && len(r.IncompatiblePolicies) == 0
}

// Match checks whether publication is delivered to subscription.
func Match(pub *PublicationBuiltinTopicData, sub *SubscriptionBuiltinTopicData) MatchResult {
	var result MatchResult
	if pub.TopicName != sub.TopicName || pub.TypeName != sub.TypeName {
		result.TopicMismatch = true
	}
	if !qos.PartitionsMatch(pub.Partition.Value, sub.Partition.Value) {
		result.PartitionMismatch = true
	}

	check := func(id qos.PolicyID, compatible bool) {
		if !compatible {
			result.IncompatiblePolicies = append(result.IncompatiblePolicies, id)
		}
	}
	check(qos.PolicyIDReliability, qos.ReliabilityCompatible(pub.Reliability.Value, sub.Reliability.Value))
	check(qos.PolicyIDDurability, qos.DurabilityCompatible(pub.Durability.Value, sub.Durability.Value))
	check(qos.PolicyIDDeadline, qos.DeadlineCompatible(pub.Deadline.Value, sub.Deadline.Value))
	check(qos.PolicyIDLatencyBudget, qos.LatencyBudgetCompatible(pub.LatencyBudget.Value, sub.LatencyBudget.Value))
	check(qos.PolicyIDLiveliness, qos.LivelinessCompatible(pub.Liveliness.Value, sub.Liveliness.Value))
	check(qos.PolicyIDOwnership, qos.OwnershipCompatible(pub.Ownership.Value, sub.Ownership.Value))
	check(qos.PolicyIDDestinationOrder,
		qos.DestinationOrderCompatible(pub.DestinationOrder.Value, sub.DestinationOrder.Value))
	check(qos.PolicyIDPresentation, qos.PresentationCompatible(pub.Presentation.Value, sub.Presentation.Value))
	check(qos.PolicyIDDataRepresentation,
		qos.DataRepresentationCompatible(pub.DataRepresentation.Value, sub.DataRepresentation.Value))
	return result
}
