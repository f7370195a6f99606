package dds_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/parallel"
	"github.com/outofforest/qa"

	dds "github.com/greenstonesoft/greenstone-dds-sub002"
	"github.com/greenstonesoft/greenstone-dds-sub002/builtin"
	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/discovery"
	"github.com/greenstonesoft/greenstone-dds-sub002/property"
	"github.com/greenstonesoft/greenstone-dds-sub002/qos"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

const maxMsgSize = 4096

type eventDesc struct {
	Type discovery.EventType
	Kind builtin.Kind
	Key  rtps.BuiltinTopicKey
}

func participantOf(client *dds.Client) *builtin.ParticipantBuiltinTopicData {
	return builtin.FromDomainParticipantQos(client.Prefix(), qos.DefaultDomainParticipantQos())
}

func publicationOf(client *dds.Client, topic string) *builtin.PublicationBuiltinTopicData {
	writer := rtps.NewGUID(client.Prefix(), rtps.NewEntityID([3]byte{0, 0, 1}, rtps.EntityKindUserWriterWithKey))
	return lo.Must(builtin.FromDataWriterQos(writer, rtps.NewGUID(client.Prefix(), rtps.EntityIDParticipant),
		topic, "ShapeType", qos.DefaultPublisherQos(), qos.DefaultDataWriterQos()))
}

func subscriptionOf(client *dds.Client, topic string) *builtin.SubscriptionBuiltinTopicData {
	reader := rtps.NewGUID(client.Prefix(), rtps.NewEntityID([3]byte{0, 0, 2}, rtps.EntityKindUserReaderWithKey))
	return lo.Must(builtin.FromDataReaderQos(reader, rtps.NewGUID(client.Prefix(), rtps.EntityIDParticipant),
		topic, "ShapeType", qos.DefaultSubscriberQos(), qos.DefaultDataReaderQos()))
}

func TestSingleServerAndTwoClients(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls.Addr().String(),
	}

	clientConfig := dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	}

	client1, recvCh1, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(clientConfig)
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	pub := publicationOf(client1, "Square")
	requireT.NoError(client1.Announce(pub))

	events := testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindPublication, Key: pub.Key},
	)
	received, ok := events[0].Announcement.(*builtin.PublicationBuiltinTopicData)
	requireT.True(ok)
	requireT.Equal("Square", received.TopicName)
	requireT.Equal(qos.ReliabilityReliable, received.Reliability.Value.Kind)

	pub2 := publicationOf(client1, "Square")
	pub2.Reliability.Set(qos.BestEffort(rtps.DurationZero))
	requireT.NoError(client1.Announce(pub2))

	events = testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventQosChanged, Kind: builtin.KindPublication, Key: pub.Key},
	)
	requireT.Equal([]qos.PolicyID{qos.PolicyIDReliability}, events[0].Changed)

	cached, exists := client2.Cache().Publication(pub.Key)
	requireT.True(exists)
	requireT.Equal(qos.ReliabilityBestEffort, cached.Reliability.Value.Kind)

	testEvents(ctx, requireT, recvCh1)
	requireT.Empty(client1.Cache().Publications())
}

func TestOnlyRequestedKindsAreReceived(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls.Addr().String(),
	}

	client1, _, err := dds.NewClient(dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	})
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
		Kinds:          []builtin.Kind{builtin.KindSubscription},
	})
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	sub := subscriptionOf(client1, "Square")
	requireT.NoError(client1.Announce(participantOf(client1)))
	requireT.NoError(client1.Announce(publicationOf(client1, "Square")))
	requireT.NoError(client1.Announce(sub))

	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindSubscription, Key: sub.Key},
	)
}

func TestServerSendsAnnouncementsToNewClient(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls.Addr().String(),
	}

	clientConfig := dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	}

	client1, recvCh1, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	observer, recvChObserver, err := dds.NewClient(clientConfig)
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("observer", parallel.Fail, observer.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	participant := participantOf(client1)
	requireT.NoError(client1.Announce(participant))

	testEvents(ctx, requireT, recvChObserver,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindParticipant, Key: participant.Key},
	)

	group.Spawn("client2", parallel.Fail, client2.Run)

	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindParticipant, Key: participant.Key},
	)
	testEvents(ctx, requireT, recvCh1)

	participants := client2.Cache().Participants()
	requireT.Len(participants, 1)
	requireT.Equal(client1.Prefix(), participants[0].GUID().Prefix)
}

func TestServersExchangeAnnouncements(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls1, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)
	ls2, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls1.Addr().String(),
		ls2.Addr().String(),
	}

	client1, recvCh1, err := dds.NewClient(dds.ClientConfig{
		Servers:        []string{ls1.Addr().String()},
		MaxMessageSize: maxMsgSize,
	})
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(dds.ClientConfig{
		Servers:        []string{ls2.Addr().String()},
		MaxMessageSize: maxMsgSize,
	})
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server1", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls1, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})
	group.Spawn("server2", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls2, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	pub := publicationOf(client1, "Square")
	sub := subscriptionOf(client2, "Square")
	requireT.NoError(client1.Announce(pub))
	requireT.NoError(client2.Announce(sub))

	testEvents(ctx, requireT, recvCh1,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindSubscription, Key: sub.Key},
	)
	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindPublication, Key: pub.Key},
	)

	requireT.Len(client1.Cache().MatchedSubscriptions(pub), 1)
	requireT.Len(client2.Cache().MatchedPublications(sub), 1)
}

func TestOnlyLatestRevisionIsSynced(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls1, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)
	ls2, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls1.Addr().String(),
		ls2.Addr().String(),
	}

	client1, recvCh1, err := dds.NewClient(dds.ClientConfig{
		Servers:        []string{ls1.Addr().String()},
		MaxMessageSize: maxMsgSize,
	})
	requireT.NoError(err)
	observer, recvChObserver, err := dds.NewClient(dds.ClientConfig{
		Servers:        []string{ls1.Addr().String()},
		MaxMessageSize: maxMsgSize,
	})
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(dds.ClientConfig{
		Servers:        []string{ls2.Addr().String()},
		MaxMessageSize: maxMsgSize,
	})
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("observer", parallel.Fail, observer.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server1", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls1, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	pub1 := publicationOf(client1, "Square")
	pub2 := publicationOf(client1, "Square")
	pub2.Reliability.Set(qos.BestEffort(rtps.DurationZero))
	requireT.NoError(client1.Announce(pub1))
	requireT.NoError(client1.Announce(pub2))

	// Server1 holds the second revision once the observer sees it.
	for {
		var event discovery.Event
		select {
		case <-ctx.Done():
			requireT.NoError(ctx.Err())
		case <-time.After(5 * time.Second):
			requireT.Fail("timeout")
		case event = <-recvChObserver:
		}
		cached, exists := observer.Cache().Publication(pub1.Key)
		requireT.True(exists)
		if cached.Reliability.Value.Kind == qos.ReliabilityBestEffort {
			break
		}
		requireT.Equal(discovery.EventNew, event.Type)
	}

	group.Spawn("server2", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls2, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	events := testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindPublication, Key: pub1.Key},
	)
	received, ok := events[0].Announcement.(*builtin.PublicationBuiltinTopicData)
	requireT.True(ok)
	requireT.Equal(qos.ReliabilityBestEffort, received.Reliability.Value.Kind)
	testEvents(ctx, requireT, recvCh1)
}

func TestDisposedParticipantRemovesItsEndpoints(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls.Addr().String(),
	}

	clientConfig := dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	}

	client1, _, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(clientConfig)
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	participant := participantOf(client1)
	pub := publicationOf(client1, "Square")
	requireT.NoError(client1.Announce(participant))
	requireT.NoError(client1.Announce(pub))

	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindParticipant, Key: participant.Key},
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindPublication, Key: pub.Key},
	)

	client1.Dispose(builtin.KindParticipant, participant.Key)

	events := testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventDisposed, Kind: builtin.KindParticipant, Key: participant.Key},
	)
	requireT.Equal([]rtps.BuiltinTopicKey{pub.Key}, events[0].Removed)
	requireT.Empty(client2.Cache().Participants())
	requireT.Empty(client2.Cache().Publications())
}

type malformedAnnouncement struct {
	key rtps.BuiltinTopicKey
}

func (a malformedAnnouncement) Kind() builtin.Kind {
	return builtin.KindTopic
}

func (a malformedAnnouncement) BuiltinTopicKey() rtps.BuiltinTopicKey {
	return a.key
}

func (a malformedAnnouncement) MarshalParameterList(opts ...cdr.Option) ([]byte, error) {
	// Topic name parameter declares more bytes than it carries.
	return []byte{0x00, 0x03, 0x00, 0x00, 0x05, 0x00, 0x08, 0x00, 0x02, 0x00}, nil
}

func TestMalformedAnnouncementIsDropped(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls.Addr().String(),
	}

	clientConfig := dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	}

	client1, _, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(clientConfig)
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	topic1 := rtps.NewGUID(client1.Prefix(), rtps.NewEntityID([3]byte{0, 0, 3}, rtps.EntityKindUnknown))
	topic2 := rtps.NewGUID(client1.Prefix(), rtps.NewEntityID([3]byte{0, 0, 4}, rtps.EntityKindUnknown))
	topic, err := builtin.FromTopicQos(topic2, "Square", "ShapeType", qos.DefaultTopicQos())
	requireT.NoError(err)

	requireT.NoError(client1.Announce(malformedAnnouncement{key: rtps.BuiltinTopicKeyFromGUID(topic1)}))
	requireT.NoError(client1.Announce(topic))

	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindTopic, Key: topic.Key},
	)
	requireT.Len(client2.Cache().Topics(), 1)
}

func TestSameAnnouncementReceivedTwiceIsIgnored(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls1, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)
	ls2, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls1.Addr().String(),
		ls2.Addr().String(),
	}

	clientConfig := dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	}

	client1, recvCh1, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(clientConfig)
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls1, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls2, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	group.Spawn("client2", parallel.Fail, client2.Run)

	participant := participantOf(client1)
	requireT.NoError(client1.Announce(participant))

	testEvents(ctx, requireT, recvCh1)
	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindParticipant, Key: participant.Key},
	)
}

func TestBinaryPropertiesAreNotRelayed(t *testing.T) {
	requireT := require.New(t)

	ctx := qa.NewContext(t)
	group := qa.NewGroup(ctx, t)

	defer func() {
		group.Exit(nil)
		requireT.NoError(group.Wait())
	}()

	ls, err := net.Listen("tcp", "localhost:0")
	requireT.NoError(err)

	servers := []string{
		ls.Addr().String(),
	}

	clientConfig := dds.ClientConfig{
		Servers:        servers,
		MaxMessageSize: maxMsgSize,
	}

	client1, _, err := dds.NewClient(clientConfig)
	requireT.NoError(err)
	client2, recvCh2, err := dds.NewClient(clientConfig)
	requireT.NoError(err)

	group.Spawn("client1", parallel.Fail, client1.Run)
	group.Spawn("client2", parallel.Fail, client2.Run)
	group.Spawn("server", parallel.Fail, func(ctx context.Context) error {
		return dds.RunServer(ctx, ls, dds.ServerConfig{
			Servers:        servers,
			MaxMessageSize: maxMsgSize,
		})
	})

	participant := participantOf(client1)
	participant.Properties.Add(property.New("app.name", "shapes", true))
	participant.Properties.Add(property.New("app.local", "1", false))
	participant.Properties.AddBinary(property.NewBinary("dds.sec.secret", []byte("KEY"), true))
	requireT.NoError(client1.Announce(participant))

	testEvents(ctx, requireT, recvCh2,
		eventDesc{Type: discovery.EventNew, Kind: builtin.KindParticipant, Key: participant.Key},
	)

	received, exists := client2.Cache().Participant(participant.Key)
	requireT.True(exists)
	requireT.Empty(received.Properties.Binary())
	requireT.Empty(received.Properties.Private())
	requireT.Equal([]property.Property{property.New("app.name", "shapes", true)}, received.Properties.Public())
}

func testEvents(
	ctx context.Context,
	requireT *require.Assertions,
	recvCh <-chan discovery.Event,
	expected ...eventDesc,
) []discovery.Event {
	events := make([]discovery.Event, 0, len(expected))
	received := make([]eventDesc, 0, len(expected))
	for range expected {
		select {
		case <-ctx.Done():
			return events
		case <-time.After(5 * time.Second):
			requireT.Fail("timeout")
		case event := <-recvCh:
			events = append(events, event)
			received = append(received, eventDesc{
				Type: event.Type,
				Kind: event.Kind,
				Key:  event.Key,
			})
		}
	}

	requireT.ElementsMatch(expected, received)
	requireT.Empty(recvCh)
	return events
}
