package dds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenstonesoft/greenstone-dds-sub002/wire"
)

func newRevision(sender byte, index wire.Revision) revision {
	return revision{
		Header: &wire.Header{
			Sender: wire.PeerID{sender},
			Revision: wire.RevisionDescriptor{
				Sample: wire.Sample{
					Kind: 1,
					Key:  wire.Key{0x01, 0x9a, 1},
				},
				Index: index,
			},
		},
		Content: []byte{byte(index)},
	}
}

func receiveAll(ch <-chan revision) []revision {
	revs := make([]revision, 0, len(ch))
	for range len(ch) {
		revs = append(revs, <-ch)
	}
	return revs
}

func TestServerConnsKeepsLatestRevisionPerSender(t *testing.T) {
	requireT := require.New(t)

	c := newServerConns()
	c.Broadcast(newRevision(1, 1))
	c.Broadcast(newRevision(1, 0))
	c.Broadcast(newRevision(2, 0))

	peer := wire.PeerID{9}
	ch := c.Add(peer)
	requireT.ElementsMatch([]revision{newRevision(1, 1), newRevision(2, 0)}, receiveAll(ch))

	c.Broadcast(newRevision(1, 1))
	requireT.Empty(receiveAll(ch))

	c.Broadcast(newRevision(1, 2))
	requireT.Equal([]revision{newRevision(1, 2)}, receiveAll(ch))

	c.Remove(peer, ch)
	_, ok := <-ch
	requireT.False(ok)
}

func TestServerConnsReplacesConnectionOfSamePeer(t *testing.T) {
	requireT := require.New(t)

	c := newServerConns()
	peer := wire.PeerID{9}
	ch1 := c.Add(peer)
	ch2 := c.Add(peer)

	_, ok := <-ch1
	requireT.False(ok)

	c.Remove(peer, ch1)
	c.Broadcast(newRevision(1, 0))
	requireT.Equal([]revision{newRevision(1, 0)}, receiveAll(ch2))
}
