// Package builtin defines the payloads exchanged by the builtin discovery endpoints and their
// parameter list encoding.
package builtin

import (
	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
)

// Parameter ids.
const (
	PIDPad                         cdr.ParameterID = cdr.PIDPad
	PIDSentinel                    cdr.ParameterID = cdr.PIDSentinel
	PIDParticipantLeaseDuration    cdr.ParameterID = 0x0002
	PIDTimeBasedFilter             cdr.ParameterID = 0x0004
	PIDTopicName                   cdr.ParameterID = 0x0005
	PIDOwnershipStrength           cdr.ParameterID = 0x0006
	PIDTypeName                    cdr.ParameterID = 0x0007
	PIDDomainID                    cdr.ParameterID = 0x000f
	PIDProtocolVersion             cdr.ParameterID = 0x0015
	PIDVendorID                    cdr.ParameterID = 0x0016
	PIDReliability                 cdr.ParameterID = 0x001a
	PIDLiveliness                  cdr.ParameterID = 0x001b
	PIDDurability                  cdr.ParameterID = 0x001d
	PIDDurabilityService           cdr.ParameterID = 0x001e
	PIDOwnership                   cdr.ParameterID = 0x001f
	PIDPresentation                cdr.ParameterID = 0x0021
	PIDDeadline                    cdr.ParameterID = 0x0023
	PIDDestinationOrder            cdr.ParameterID = 0x0025
	PIDLatencyBudget               cdr.ParameterID = 0x0027
	PIDPartition                   cdr.ParameterID = 0x0029
	PIDLifespan                    cdr.ParameterID = 0x002b
	PIDUserData                    cdr.ParameterID = 0x002c
	PIDGroupData                   cdr.ParameterID = 0x002d
	PIDTopicData                   cdr.ParameterID = 0x002e
	PIDUnicastLocator              cdr.ParameterID = 0x002f
	PIDMulticastLocator            cdr.ParameterID = 0x0030
	PIDDefaultUnicastLocator       cdr.ParameterID = 0x0031
	PIDMetatrafficUnicastLocator   cdr.ParameterID = 0x0032
	PIDMetatrafficMulticastLocator cdr.ParameterID = 0x0033
	PIDManualLivelinessCount       cdr.ParameterID = 0x0034
	PIDHistory                     cdr.ParameterID = 0x0040
	PIDResourceLimits              cdr.ParameterID = 0x0041
	PIDExpectsInlineQos            cdr.ParameterID = 0x0043
	PIDDefaultMulticastLocator     cdr.ParameterID = 0x0048
	PIDTransportPriority           cdr.ParameterID = 0x0049
	PIDParticipantGUID             cdr.ParameterID = 0x0050
	PIDGroupGUID                   cdr.ParameterID = 0x0052
	PIDBuiltinEndpointSet          cdr.ParameterID = 0x0058
	PIDPropertyList                cdr.ParameterID = 0x0059
	PIDEndpointGUID                cdr.ParameterID = 0x005a
	PIDTypeMaxSizeSerialized       cdr.ParameterID = 0x0060
	PIDEntityName                  cdr.ParameterID = 0x0062
	PIDKeyHash                     cdr.ParameterID = 0x0070
	PIDStatusInfo                  cdr.ParameterID = 0x0071
	PIDDataRepresentation          cdr.ParameterID = 0x0073
	PIDTypeConsistency             cdr.ParameterID = 0x0074
	PIDBuiltinEndpointQos          cdr.ParameterID = 0x0077
	PIDDomainTag                   cdr.ParameterID = 0x4014

	PIDIdentityToken           cdr.ParameterID = 0x1001
	PIDPermissionsToken        cdr.ParameterID = 0x1002
	PIDDataTags                cdr.ParameterID = 0x1003
	PIDEndpointSecurityInfo    cdr.ParameterID = 0x1004
	PIDParticipantSecurityInfo cdr.ParameterID = 0x1005
	PIDIdentityStatusToken     cdr.ParameterID = 0x1006
)

// PolicyParameter returns parameter id carrying the policy in discovery data.
// Policies never sent in discovery data map to PIDPad.
func PolicyParameter(id qos.PolicyID) cdr.ParameterID {
	switch id {
	case qos.PolicyIDUserData:
		return PIDUserData
	case qos.PolicyIDDurability:
		return PIDDurability
	case qos.PolicyIDPresentation:
		return PIDPresentation
	case qos.PolicyIDDeadline:
		return PIDDeadline
	case qos.PolicyIDLatencyBudget:
		return PIDLatencyBudget
	case qos.PolicyIDOwnership:
		return PIDOwnership
	case qos.PolicyIDOwnershipStrength:
		return PIDOwnershipStrength
	case qos.PolicyIDLiveliness:
		return PIDLiveliness
	case qos.PolicyIDTimeBasedFilter:
		return PIDTimeBasedFilter
	case qos.PolicyIDPartition:
		return PIDPartition
	case qos.PolicyIDReliability:
		return PIDReliability
	case qos.PolicyIDDestinationOrder:
		return PIDDestinationOrder
	case qos.PolicyIDHistory:
		return PIDHistory
	case qos.PolicyIDResourceLimits:
		return PIDResourceLimits
	case qos.PolicyIDTopicData:
		return PIDTopicData
	case qos.PolicyIDGroupData:
		return PIDGroupData
	case qos.PolicyIDTransportPriority:
		return PIDTransportPriority
	case qos.PolicyIDLifespan:
		return PIDLifespan
	case qos.PolicyIDDurabilityService:
		return PIDDurabilityService
	case qos.PolicyIDDataRepresentation:
		return PIDDataRepresentation
	case qos.PolicyIDTypeConsistencyEnforcement:
		return PIDTypeConsistency
	case qos.PolicyIDProperty:
		return PIDPropertyList
	default:
		return PIDPad
	}
}
