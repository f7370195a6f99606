package builtin

import (
	"github.com/pkg/errors"

	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/property"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

// DefaultParticipantLeaseDuration is the lease duration assumed when participant does not announce it.
var DefaultParticipantLeaseDuration = rtps.NewDuration(100, 0)

// ParticipantBuiltinTopicData is announced by participant discovery.
type ParticipantBuiltinTopicData struct {
	Key                          rtps.BuiltinTopicKey
	ProtocolVersion              rtps.ProtocolVersion
	VendorID                     rtps.VendorID
	ExpectsInlineQos             bool
	DefaultUnicastLocators       []rtps.Locator
	DefaultMulticastLocators     []rtps.Locator
	MetatrafficUnicastLocators   []rtps.Locator
	MetatrafficMulticastLocators []rtps.Locator
	LeaseDuration                rtps.Duration
	BuiltinEndpoints             rtps.BuiltinEndpointSet
	ManualLivelinessCount        int32
	UserData                     qos.Optional[qos.UserData]
	Properties                   qos.Property
	IdentityToken                qos.Optional[property.IdentityToken]
	PermissionsToken             qos.Optional[property.PermissionsToken]
	IdentityStatusToken          qos.Optional[property.IdentityStatusToken]
	EntityName                   qos.Optional[string]
	DomainID                     qos.Optional[uint32]
	DomainTag                    qos.Optional[string]
}

// NewParticipantBuiltinTopicData returns participant data with all the optional fields absent.
func NewParticipantBuiltinTopicData() *ParticipantBuiltinTopicData {
	return &ParticipantBuiltinTopicData{
		LeaseDuration: DefaultParticipantLeaseDuration,
	}
}

// FromDomainParticipantQos builds the data announced by local participant.
func FromDomainParticipantQos(prefix rtps.GuidPrefix, q qos.DomainParticipantQos) *ParticipantBuiltinTopicData {
	d := NewParticipantBuiltinTopicData()
	d.Key = rtps.BuiltinTopicKeyFromGUID(rtps.NewGUID(prefix, rtps.EntityIDParticipant))
	d.ProtocolVersion = rtps.ProtocolVersion24
	d.VendorID = rtps.VendorIDGreen
	d.BuiltinEndpoints = rtps.BuiltinEndpointsDefault
	if len(q.UserData.Value) > 0 {
		d.UserData.Set(q.UserData)
	}
	d.Properties = q.Property
	return d
}

// Kind returns KindParticipant.
func (d *ParticipantBuiltinTopicData) Kind() Kind {
	return KindParticipant
}

// BuiltinTopicKey returns the key of participant.
func (d *ParticipantBuiltinTopicData) BuiltinTopicKey() rtps.BuiltinTopicKey {
	return d.Key
}

// GUID returns GUID of participant.
func (d *ParticipantBuiltinTopicData) GUID() rtps.GUID {
	return d.Key.GUID()
}

// Equal compares keys only.
func (d *ParticipantBuiltinTopicData) Equal(other *ParticipantBuiltinTopicData) bool {
	return d.Key == other.Key
}

// QosChanged returns ids of policies which differ.
func (d *ParticipantBuiltinTopicData) QosChanged(other *ParticipantBuiltinTopicData) []qos.PolicyID {
	var diff qosDiff
	diffPolicy(&diff, qos.PolicyIDUserData, d.UserData, other.UserData)
	if !d.Properties.Equal(other.Properties) {
		diff = append(diff, qos.PolicyIDProperty)
	}
	return diff
}

// MarshalParameterList encodes participant data.
func (d *ParticipantBuiltinTopicData) MarshalParameterList(opts ...cdr.Option) ([]byte, error) {
	e := newEncoder(opts)
	e.write(PIDParticipantGUID, func(w *cdr.Writer) {
		writeKey(w, d.Key)
	})
	e.write(PIDProtocolVersion, func(w *cdr.Writer) {
		w.Uint8(d.ProtocolVersion.Major)
		w.Uint8(d.ProtocolVersion.Minor)
	})
	e.write(PIDVendorID, func(w *cdr.Writer) {
		w.Octets(d.VendorID[:])
	})
	if d.ExpectsInlineQos {
		e.write(PIDExpectsInlineQos, func(w *cdr.Writer) {
			w.Bool(true)
		})
	}
	writeLocators(e, PIDDefaultUnicastLocator, d.DefaultUnicastLocators)
	writeLocators(e, PIDDefaultMulticastLocator, d.DefaultMulticastLocators)
	writeLocators(e, PIDMetatrafficUnicastLocator, d.MetatrafficUnicastLocators)
	writeLocators(e, PIDMetatrafficMulticastLocator, d.MetatrafficMulticastLocators)
	e.write(PIDParticipantLeaseDuration, func(w *cdr.Writer) {
		w.Duration(d.LeaseDuration)
	})
	e.write(PIDBuiltinEndpointSet, func(w *cdr.Writer) {
		w.Uint32(uint32(d.BuiltinEndpoints))
	})
	if d.ManualLivelinessCount != 0 {
		e.write(PIDManualLivelinessCount, func(w *cdr.Writer) {
			w.Int32(d.ManualLivelinessCount)
		})
	}
	writeOptional(e, PIDUserData, d.UserData, writeUserData)
	if len(d.Properties.Public()) > 0 {
		e.write(PIDPropertyList, func(w *cdr.Writer) {
			writePropertyList(w, d.Properties)
		})
	}
	writeOptional(e, PIDIdentityToken, d.IdentityToken, writeToken)
	writeOptional(e, PIDPermissionsToken, d.PermissionsToken, writeToken)
	writeOptional(e, PIDIdentityStatusToken, d.IdentityStatusToken, writeToken)
	writeOptional(e, PIDEntityName, d.EntityName, writeString)
	writeOptional(e, PIDDomainID, d.DomainID, writeUint32)
	writeOptional(e, PIDDomainTag, d.DomainTag, writeString)
	return e.bytes()
}

// UnmarshalParameterList decodes participant data.
func (d *ParticipantBuiltinTopicData) UnmarshalParameterList(b []byte, opts ...cdr.Option) error {
	return decode(b, d, func() ParticipantBuiltinTopicData {
		return *NewParticipantBuiltinTopicData()
	}, (*ParticipantBuiltinTopicData).decodeParameter, (*ParticipantBuiltinTopicData).validate, opts)
}

func (d *ParticipantBuiltinTopicData) decodeParameter(pid cdr.ParameterID, r *cdr.Reader) (bool, error) {
	var err error
	switch pid {
	case PIDParticipantGUID:
		d.Key, err = readKey(r)
	case PIDProtocolVersion:
		if d.ProtocolVersion.Major, err = r.Uint8(); err == nil {
			d.ProtocolVersion.Minor, err = r.Uint8()
		}
	case PIDVendorID:
		err = r.OctetsInto(d.VendorID[:])
	case PIDExpectsInlineQos:
		d.ExpectsInlineQos, err = r.Bool()
	case PIDDefaultUnicastLocator:
		err = appendLocator(&d.DefaultUnicastLocators, r)
	case PIDDefaultMulticastLocator:
		err = appendLocator(&d.DefaultMulticastLocators, r)
	case PIDMetatrafficUnicastLocator:
		err = appendLocator(&d.MetatrafficUnicastLocators, r)
	case PIDMetatrafficMulticastLocator:
		err = appendLocator(&d.MetatrafficMulticastLocators, r)
	case PIDParticipantLeaseDuration:
		d.LeaseDuration, err = r.Duration()
	case PIDBuiltinEndpointSet:
		var v uint32
		v, err = r.Uint32()
		d.BuiltinEndpoints = rtps.BuiltinEndpointSet(v)
	case PIDManualLivelinessCount:
		d.ManualLivelinessCount, err = r.Int32()
	case PIDUserData:
		err = readOptional(&d.UserData, r, readUserData)
	case PIDPropertyList:
		d.Properties, err = readPropertyList(r)
	case PIDIdentityToken:
		err = readOptional(&d.IdentityToken, r, readToken)
	case PIDPermissionsToken:
		err = readOptional(&d.PermissionsToken, r, readToken)
	case PIDIdentityStatusToken:
		err = readOptional(&d.IdentityStatusToken, r, readToken)
	case PIDEntityName:
		err = readOptional(&d.EntityName, r, readString)
	case PIDDomainID:
		err = readOptional(&d.DomainID, r, readUint32)
	case PIDDomainTag:
		err = readOptional(&d.DomainTag, r, readString)
	case PIDKeyHash:
		if d.Key.IsUnknown() {
			d.Key, err = readKey(r)
		}
	default:
		return false, nil
	}
	return true, err
}

func (d *ParticipantBuiltinTopicData) validate() error {
	if d.Key.IsUnknown() {
		return errors.Wrap(cdr.ErrMalformedPayload, "participant GUID is missing")
	}
	return nil
}

func appendLocator(locators *[]rtps.Locator, r *cdr.Reader) error {
	l, err := r.Locator()
	if err != nil {
		return err
	}
	*locators = append(*locators, l)
	return nil
}
