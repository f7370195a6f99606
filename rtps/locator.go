package rtps

import (
	"fmt"
	"net"
)

// LocatorKind is the transport kind of locator.
type LocatorKind int32

// Locator kinds.
const (
	LocatorKindInvalid  LocatorKind = -1
	LocatorKindReserved LocatorKind = 0
	LocatorKindUDPv4    LocatorKind = 1
	LocatorKindUDPv6    LocatorKind = 2
	LocatorKindTCPv4    LocatorKind = 4
	LocatorKindTCPv6    LocatorKind = 8
	LocatorKindSHM      LocatorKind = 16
)

// LocatorPortInvalid marks locator without port.
const LocatorPortInvalid uint32 = 0

// Locator is a transport address of an endpoint.
type Locator struct {
	Kind    LocatorKind
	Port    uint32
	Address [16]byte
}

// LocatorInvalid is the invalid locator.
var LocatorInvalid = Locator{Kind: LocatorKindInvalid}

// NewUDPv4Locator creates UDPv4 locator.
func NewUDPv4Locator(ip net.IP, port uint32) Locator {
	loc := Locator{Kind: LocatorKindUDPv4, Port: port}
	if ip4 := ip.To4(); ip4 != nil {
		copy(loc.Address[12:], ip4)
	}
	return loc
}

// NewUDPv6Locator creates UDPv6 locator.
func NewUDPv6Locator(ip net.IP, port uint32) Locator {
	loc := Locator{Kind: LocatorKindUDPv6, Port: port}
	if ip16 := ip.To16(); ip16 != nil {
		copy(loc.Address[:], ip16)
	}
	return loc
}

// IsValid returns true if locator has valid kind and port.
func (l Locator) IsValid() bool {
	return l.Kind > LocatorKindReserved && l.Port != LocatorPortInvalid
}

// IP returns IP address of locator.
func (l Locator) IP() net.IP {
	switch l.Kind {
	case LocatorKindUDPv4, LocatorKindTCPv4:
		return net.IPv4(l.Address[12], l.Address[13], l.Address[14], l.Address[15])
	default:
		ip := make(net.IP, net.IPv6len)
		copy(ip, l.Address[:])
		return ip
	}
}

func (l Locator) String() string {
	switch l.Kind {
	case LocatorKindUDPv4:
		return fmt.Sprintf("udpv4://%s", net.JoinHostPort(l.IP().String(), fmt.Sprint(l.Port)))
	case LocatorKindUDPv6:
		return fmt.Sprintf("udpv6://%s", net.JoinHostPort(l.IP().String(), fmt.Sprint(l.Port)))
	case LocatorKindTCPv4:
		return fmt.Sprintf("tcpv4://%s", net.JoinHostPort(l.IP().String(), fmt.Sprint(l.Port)))
	case LocatorKindTCPv6:
		return fmt.Sprintf("tcpv6://%s", net.JoinHostPort(l.IP().String(), fmt.Sprint(l.Port)))
	default:
		return fmt.Sprintf("locator(%d):%x:%d", l.Kind, l.Address[:], l.Port)
	}
}

// BuiltinEndpointSet announces builtin endpoints available in a participant.
type BuiltinEndpointSet uint32

// Builtin endpoints.
const (
	BuiltinEndpointParticipantAnnouncer         BuiltinEndpointSet = 1 << 0
	BuiltinEndpointParticipantDetector          BuiltinEndpointSet = 1 << 1
	BuiltinEndpointPublicationAnnouncer         BuiltinEndpointSet = 1 << 2
	BuiltinEndpointPublicationDetector          BuiltinEndpointSet = 1 << 3
	BuiltinEndpointSubscriptionAnnouncer        BuiltinEndpointSet = 1 << 4
	BuiltinEndpointSubscriptionDetector         BuiltinEndpointSet = 1 << 5
	BuiltinEndpointParticipantMessageDataWriter BuiltinEndpointSet = 1 << 10
	BuiltinEndpointParticipantMessageDataReader BuiltinEndpointSet = 1 << 11
	BuiltinEndpointTopicAnnouncer               BuiltinEndpointSet = 1 << 28
	BuiltinEndpointTopicDetector                BuiltinEndpointSet = 1 << 29
	BuiltinEndpointParticipantStatelessWriter   BuiltinEndpointSet = 1 << 22
	BuiltinEndpointParticipantStatelessReader   BuiltinEndpointSet = 1 << 23
	BuiltinEndpointParticipantVolatileWriter    BuiltinEndpointSet = 1 << 24
	BuiltinEndpointParticipantVolatileReader    BuiltinEndpointSet = 1 << 25

	// BuiltinEndpointsDefault is the set announced by a participant with simple discovery.
	BuiltinEndpointsDefault = BuiltinEndpointParticipantAnnouncer | BuiltinEndpointParticipantDetector |
		BuiltinEndpointPublicationAnnouncer | BuiltinEndpointPublicationDetector |
		BuiltinEndpointSubscriptionAnnouncer | BuiltinEndpointSubscriptionDetector |
		BuiltinEndpointParticipantMessageDataWriter | BuiltinEndpointParticipantMessageDataReader
)

// Has returns true if all endpoints in e are present.
func (s BuiltinEndpointSet) Has(e BuiltinEndpointSet) bool {
	return s&e == e
}
