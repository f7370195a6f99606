package wire

type (
	// PeerID is the GUID prefix of the peer.
	PeerID [12]byte

	// Kind is the kind of builtin topic carried by the sample.
	Kind uint64

	// Key is the builtin topic key of the announced entity.
	Key [16]byte

	// Revision is the revision of the sample used for deduplication.
	Revision uint64
)

// Hello is the message exchanged between peers when connecting.
type Hello struct {
	PeerID   PeerID
	IsServer bool
	Kinds    []Kind
}

// Sample identifies the entity announced by sender.
type Sample struct {
	Kind Kind
	Key  Key
}

// RevisionDescriptor uniquely identifies revision of sample.
type RevisionDescriptor struct {
	Sample Sample
	Index  Revision
}

// Header describes the following parameter list.
// Disposed sample carries the key only.
type Header struct {
	Sender   PeerID
	Revision RevisionDescriptor
	Disposed bool
}

// Content carries the parameter list of the sample announced by the preceding header.
type Content struct {
	Payload []byte
}
