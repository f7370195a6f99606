package builtin

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/property"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

type encoder struct {
	scheme cdr.Scheme
	plw    *cdr.ParameterListWriter
	err    error
}

func newEncoder(opts []cdr.Option) *encoder {
	o := cdr.NewOptions(opts...)
	scheme := o.ParameterListScheme()
	return &encoder{
		scheme: scheme,
		plw:    cdr.NewParameterListWriter(scheme.ByteOrder(), o),
	}
}

func (e *encoder) write(pid cdr.ParameterID, fn func(w *cdr.Writer)) {
	if e.err != nil {
		return
	}
	e.err = e.plw.Write(pid, func(w *cdr.Writer) error {
		fn(w)
		return nil
	})
}

func (e *encoder) bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return append(cdr.Header{Scheme: e.scheme}.Append(nil), e.plw.Bytes()...), nil
}

func writeOptional[T any](e *encoder, pid cdr.ParameterID, o qos.Optional[T], fn func(w *cdr.Writer, v T)) {
	if !o.Present {
		return
	}
	e.write(pid, func(w *cdr.Writer) {
		fn(w, o.Value)
	})
}

func writeLocators(e *encoder, pid cdr.ParameterID, locators []rtps.Locator) {
	for _, l := range locators {
		e.write(pid, func(w *cdr.Writer) {
			w.Locator(l)
		})
	}
}

func readOptional[T any](o *qos.Optional[T], r *cdr.Reader, fn func(r *cdr.Reader) (T, error)) error {
	v, err := fn(r)
	if err != nil {
		return err
	}
	o.Set(v)
	return nil
}

// decode parses parameter list into the target. In strict mode target is modified only when
// the whole list is decoded.
func decode[T any](
	b []byte,
	target *T,
	fresh func() T,
	decodeParameter func(v *T, pid cdr.ParameterID, r *cdr.Reader) (bool, error),
	validate func(v *T) error,
	opts []cdr.Option,
) error {
	o := cdr.NewOptions(opts...)
	h, body, err := cdr.ReadHeader(b)
	if err != nil {
		return err
	}
	if !h.Scheme.IsParameterList() {
		return errors.Wrapf(cdr.ErrMalformedPayload, "parameter list expected, got %s", h.Scheme)
	}

	v := fresh()
	err = cdr.ReadParameterList(body, h.Scheme.ByteOrder(), o, func(pid cdr.ParameterID, r *cdr.Reader) (bool, error) {
		return decodeParameter(&v, pid, r)
	})
	if err == nil {
		err = validate(&v)
	}
	if err != nil {
		if o.BestEffort {
			*target = v
		}
		return err
	}
	*target = v
	return nil
}

func writeGUID(w *cdr.Writer, g rtps.GUID) {
	b := g.Bytes()
	w.Octets(b[:])
}

func readGUID(r *cdr.Reader) (rtps.GUID, error) {
	var b [rtps.GUIDLength]byte
	if err := r.OctetsInto(b[:]); err != nil {
		return rtps.GUID{}, err
	}
	return rtps.GUIDFromBytes(b), nil
}

func writeKey(w *cdr.Writer, k rtps.BuiltinTopicKey) {
	w.Octets(k[:])
}

func readKey(r *cdr.Reader) (rtps.BuiltinTopicKey, error) {
	var k rtps.BuiltinTopicKey
	if err := r.OctetsInto(k[:]); err != nil {
		return rtps.BuiltinTopicKey{}, err
	}
	return k, nil
}

func readString(r *cdr.Reader) (string, error) {
	return r.String()
}

func readUint32(r *cdr.Reader) (uint32, error) {
	return r.Uint32()
}

func writeString(w *cdr.Writer, s string) {
	w.String(s)
}

func writeUint32(w *cdr.Writer, v uint32) {
	w.Uint32(v)
}

func writeDurability(w *cdr.Writer, p qos.Durability) {
	w.Uint32(uint32(p.Kind))
}

func readDurability(r *cdr.Reader) (qos.Durability, error) {
	kind, err := r.Uint32()
	if err != nil {
		return qos.Durability{}, err
	}
	if qos.DurabilityKind(kind) > qos.DurabilityPersistent {
		return qos.Durability{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid durability kind %d", kind)
	}
	return qos.Durability{Kind: qos.DurabilityKind(kind)}, nil
}

func writeHistory(w *cdr.Writer, p qos.History) {
	w.Uint32(uint32(p.Kind))
	w.Int32(p.Depth)
}

func readHistory(r *cdr.Reader) (qos.History, error) {
	kind, err := r.Uint32()
	if err != nil {
		return qos.History{}, err
	}
	if qos.HistoryKind(kind) > qos.HistoryKeepAll {
		return qos.History{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid history kind %d", kind)
	}
	depth, err := r.Int32()
	if err != nil {
		return qos.History{}, err
	}
	return qos.History{Kind: qos.HistoryKind(kind), Depth: depth}, nil
}

func writeDurabilityService(w *cdr.Writer, p qos.DurabilityService) {
	w.Duration(p.ServiceCleanupDelay)
	writeHistory(w, p.History)
	w.Int32(p.MaxSamples)
	w.Int32(p.MaxInstances)
	w.Int32(p.MaxSamplesPerInstance)
}

func readDurabilityService(r *cdr.Reader) (qos.DurabilityService, error) {
	var p qos.DurabilityService
	var err error
	if p.ServiceCleanupDelay, err = r.Duration(); err != nil {
		return qos.DurabilityService{}, err
	}
	if p.History, err = readHistory(r); err != nil {
		return qos.DurabilityService{}, err
	}
	if p.MaxSamples, err = r.Int32(); err != nil {
		return qos.DurabilityService{}, err
	}
	if p.MaxInstances, err = r.Int32(); err != nil {
		return qos.DurabilityService{}, err
	}
	if p.MaxSamplesPerInstance, err = r.Int32(); err != nil {
		return qos.DurabilityService{}, err
	}
	return p, nil
}

func writeDeadline(w *cdr.Writer, p qos.Deadline) {
	w.Duration(p.Period)
}

func readDeadline(r *cdr.Reader) (qos.Deadline, error) {
	d, err := r.Duration()
	return qos.Deadline{Period: d}, err
}

func writeLatencyBudget(w *cdr.Writer, p qos.LatencyBudget) {
	w.Duration(p.Duration)
}

func readLatencyBudget(r *cdr.Reader) (qos.LatencyBudget, error) {
	d, err := r.Duration()
	return qos.LatencyBudget{Duration: d}, err
}

func writeLifespan(w *cdr.Writer, p qos.Lifespan) {
	w.Duration(p.Duration)
}

func readLifespan(r *cdr.Reader) (qos.Lifespan, error) {
	d, err := r.Duration()
	return qos.Lifespan{Duration: d}, err
}

func writeTimeBasedFilter(w *cdr.Writer, p qos.TimeBasedFilter) {
	w.Duration(p.MinimumSeparation)
}

func readTimeBasedFilter(r *cdr.Reader) (qos.TimeBasedFilter, error) {
	d, err := r.Duration()
	return qos.TimeBasedFilter{MinimumSeparation: d}, err
}

// Announcement period is local and never sent.
func writeLiveliness(w *cdr.Writer, p qos.Liveliness) {
	w.Uint32(uint32(p.Kind))
	w.Duration(p.LeaseDuration)
}

func readLiveliness(r *cdr.Reader) (qos.Liveliness, error) {
	kind, err := r.Uint32()
	if err != nil {
		return qos.Liveliness{}, err
	}
	if qos.LivelinessKind(kind) > qos.LivelinessManualByTopic {
		return qos.Liveliness{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid liveliness kind %d", kind)
	}
	lease, err := r.Duration()
	if err != nil {
		return qos.Liveliness{}, err
	}
	p := qos.DefaultLiveliness()
	p.Kind = qos.LivelinessKind(kind)
	p.LeaseDuration = lease
	return p, nil
}

func writeReliability(w *cdr.Writer, p qos.Reliability) {
	w.Uint32(uint32(p.Kind))
	w.Duration(p.MaxBlockingTime)
}

func readReliability(r *cdr.Reader) (qos.Reliability, error) {
	kind, err := r.Uint32()
	if err != nil {
		return qos.Reliability{}, err
	}
	if qos.ReliabilityKind(kind) != qos.ReliabilityBestEffort && qos.ReliabilityKind(kind) != qos.ReliabilityReliable {
		return qos.Reliability{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid reliability kind %d", kind)
	}
	d, err := r.Duration()
	if err != nil {
		return qos.Reliability{}, err
	}
	return qos.Reliability{Kind: qos.ReliabilityKind(kind), MaxBlockingTime: d}, nil
}

func writeDestinationOrder(w *cdr.Writer, p qos.DestinationOrder) {
	w.Uint32(uint32(p.Kind))
}

func readDestinationOrder(r *cdr.Reader) (qos.DestinationOrder, error) {
	kind, err := r.Uint32()
	if err != nil {
		return qos.DestinationOrder{}, err
	}
	if qos.DestinationOrderKind(kind) > qos.DestinationOrderBySourceTimestamp {
		return qos.DestinationOrder{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid destination order kind %d",
			kind)
	}
	return qos.DestinationOrder{Kind: qos.DestinationOrderKind(kind)}, nil
}

// Allocated and extra samples are local and never sent.
func writeResourceLimits(w *cdr.Writer, p qos.ResourceLimits) {
	w.Int32(p.MaxSamples)
	w.Int32(p.MaxInstances)
	w.Int32(p.MaxSamplesPerInstance)
}

func readResourceLimits(r *cdr.Reader) (qos.ResourceLimits, error) {
	p := qos.DefaultResourceLimits()
	var err error
	if p.MaxSamples, err = r.Int32(); err != nil {
		return qos.ResourceLimits{}, err
	}
	if p.MaxInstances, err = r.Int32(); err != nil {
		return qos.ResourceLimits{}, err
	}
	if p.MaxSamplesPerInstance, err = r.Int32(); err != nil {
		return qos.ResourceLimits{}, err
	}
	return p, nil
}

func writeTransportPriority(w *cdr.Writer, p qos.TransportPriority) {
	w.Int32(p.Value)
}

func readTransportPriority(r *cdr.Reader) (qos.TransportPriority, error) {
	v, err := r.Int32()
	return qos.TransportPriority{Value: v}, err
}

func writeUserData(w *cdr.Writer, p qos.UserData) {
	w.OctetSeq(p.Value)
}

func readUserData(r *cdr.Reader) (qos.UserData, error) {
	v, err := r.OctetSeq()
	return qos.UserData{Value: v}, err
}

func writeTopicData(w *cdr.Writer, p qos.TopicData) {
	w.OctetSeq(p.Value)
}

func readTopicData(r *cdr.Reader) (qos.TopicData, error) {
	v, err := r.OctetSeq()
	return qos.TopicData{Value: v}, err
}

func writeGroupData(w *cdr.Writer, p qos.GroupData) {
	w.OctetSeq(p.Value)
}

func readGroupData(r *cdr.Reader) (qos.GroupData, error) {
	v, err := r.OctetSeq()
	return qos.GroupData{Value: v}, err
}

func writeOwnership(w *cdr.Writer, p qos.Ownership) {
	w.Uint32(uint32(p.Kind))
}

func readOwnership(r *cdr.Reader) (qos.Ownership, error) {
	kind, err := r.Uint32()
	if err != nil {
		return qos.Ownership{}, err
	}
	if qos.OwnershipKind(kind) > qos.OwnershipExclusive {
		return qos.Ownership{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid ownership kind %d", kind)
	}
	return qos.Ownership{Kind: qos.OwnershipKind(kind)}, nil
}

func writeOwnershipStrength(w *cdr.Writer, p qos.OwnershipStrength) {
	w.Int32(p.Value)
}

func readOwnershipStrength(r *cdr.Reader) (qos.OwnershipStrength, error) {
	v, err := r.Int32()
	return qos.OwnershipStrength{Value: v}, err
}

func writePresentation(w *cdr.Writer, p qos.Presentation) {
	w.Uint32(uint32(p.AccessScope))
	w.Bool(p.CoherentAccess)
	w.Bool(p.OrderedAccess)
}

func readPresentation(r *cdr.Reader) (qos.Presentation, error) {
	scope, err := r.Uint32()
	if err != nil {
		return qos.Presentation{}, err
	}
	if qos.PresentationAccessScope(scope) > qos.PresentationGroup {
		return qos.Presentation{}, errors.Wrapf(cdr.ErrMalformedPayload, "invalid presentation scope %d", scope)
	}
	coherent, err := r.Bool()
	if err != nil {
		return qos.Presentation{}, err
	}
	ordered, err := r.Bool()
	if err != nil {
		return qos.Presentation{}, err
	}
	return qos.Presentation{
		AccessScope:    qos.PresentationAccessScope(scope),
		CoherentAccess: coherent,
		OrderedAccess:  ordered,
	}, nil
}

func writePartition(w *cdr.Writer, p qos.Partition) {
	w.StringSeq(p.Names)
}

func readPartition(r *cdr.Reader) (qos.Partition, error) {
	names, err := r.StringSeq()
	return qos.Partition{Names: names}, err
}

func writeDataRepresentation(w *cdr.Writer, p qos.DataRepresentation) {
	w.Uint32(uint32(len(p.Value)))
	for _, id := range p.Value {
		w.Int16(int16(id))
	}
}

func readDataRepresentation(r *cdr.Reader) (qos.DataRepresentation, error) {
	n, err := r.Uint32()
	if err != nil {
		return qos.DataRepresentation{}, err
	}
	if uint64(n)*2 > uint64(r.Remaining()) {
		return qos.DataRepresentation{}, errors.Wrapf(cdr.ErrMalformedPayload,
			"data representation of %d items exceeds buffer", n)
	}
	p := qos.DataRepresentation{Value: make([]qos.DataRepresentationID, 0, n)}
	for range n {
		v, err := r.Int16()
		if err != nil {
			return qos.DataRepresentation{}, err
		}
		p.Value = append(p.Value, qos.DataRepresentationID(v))
	}
	return p, nil
}

func writeTypeConsistency(w *cdr.Writer, p qos.TypeConsistencyEnforcement) {
	w.Uint16(uint16(p.Kind))
	w.Bool(p.IgnoreSequenceBounds)
	w.Bool(p.IgnoreStringBounds)
	w.Bool(p.IgnoreMemberNames)
	w.Bool(p.PreventTypeWidening)
	w.Bool(p.ForceTypeValidation)
}

func readTypeConsistency(r *cdr.Reader) (qos.TypeConsistencyEnforcement, error) {
	kind, err := r.Uint16()
	if err != nil {
		return qos.TypeConsistencyEnforcement{}, err
	}
	p := qos.DefaultTypeConsistencyEnforcement()
	p.Kind = qos.TypeConsistencyKind(kind)
	// Older implementations send the kind only.
	for _, flag := range []*bool{
		&p.IgnoreSequenceBounds, &p.IgnoreStringBounds, &p.IgnoreMemberNames,
		&p.PreventTypeWidening, &p.ForceTypeValidation,
	} {
		if r.Remaining() == 0 {
			break
		}
		if *flag, err = r.Bool(); err != nil {
			return qos.TypeConsistencyEnforcement{}, err
		}
	}
	return p, nil
}

// Only public properties are sent. Private and binary properties stay in the process.
func writePropertyList(w *cdr.Writer, p qos.Property) {
	public := p.Public()
	w.Uint32(uint32(len(public)))
	for _, prop := range public {
		w.String(prop.Name)
		w.String(prop.Value)
	}
}

// Anything following the public sequence, like the binary properties sent by other vendors, is ignored.
func readPropertyList(r *cdr.Reader) (qos.Property, error) {
	var p qos.Property
	props, err := readProperties(r)
	if err != nil {
		return qos.Property{}, err
	}
	for _, prop := range props {
		p.Add(prop)
	}
	return p, nil
}

func writeBinaryProperties(w *cdr.Writer, props []property.BinaryProperty) {
	w.Uint32(uint32(len(props)))
	for _, prop := range props {
		w.String(prop.Name)
		w.OctetSeq(prop.Value)
	}
}

// Every received property propagates.
func readProperties(r *cdr.Reader) ([]property.Property, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	// Every property takes at least 8 bytes.
	if uint64(n)*8 > uint64(r.Remaining()) {
		return nil, errors.Wrapf(cdr.ErrMalformedPayload, "%d properties exceed buffer", n)
	}
	props := make([]property.Property, 0, n)
	for range n {
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		value, err := r.String()
		if err != nil {
			return nil, err
		}
		props = append(props, property.New(name, value, true))
	}
	return props, nil
}

func readBinaryProperties(r *cdr.Reader) ([]property.BinaryProperty, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*8 > uint64(r.Remaining()) {
		return nil, errors.Wrapf(cdr.ErrMalformedPayload, "%d binary properties exceed buffer", n)
	}
	props := make([]property.BinaryProperty, 0, n)
	for range n {
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		value, err := r.OctetSeq()
		if err != nil {
			return nil, err
		}
		props = append(props, property.NewBinary(name, value, true))
	}
	return props, nil
}

// Only propagating properties of the token are sent.
func writeToken(w *cdr.Writer, t property.Token) {
	w.String(t.ClassID)
	props := lo.Filter(t.Properties, func(p property.Property, _ int) bool {
		return p.Propagate
	})
	w.Uint32(uint32(len(props)))
	for _, prop := range props {
		w.String(prop.Name)
		w.String(prop.Value)
	}
	writeBinaryProperties(w, lo.Filter(t.BinaryProperties, func(p property.BinaryProperty, _ int) bool {
		return p.Propagate
	}))
}

func readToken(r *cdr.Reader) (property.Token, error) {
	classID, err := r.String()
	if err != nil {
		return property.Token{}, err
	}
	props, err := readProperties(r)
	if err != nil {
		return property.Token{}, err
	}
	binary, err := readBinaryProperties(r)
	if err != nil {
		return property.Token{}, err
	}
	return property.Token{
		ClassID:          classID,
		Properties:       props,
		BinaryProperties: binary,
	}, nil
}
