package dds

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/resonance"

	"github.com/greenstonesoft/greenstone-dds-sub002/wire"
)

const queueSize = 10

var errSameServer = errors.New("connected to myself")

type revDescriptor struct {
	wire.Sample

	Sender wire.PeerID
}

// revision is the header of the sample and its content. Servers keep the content as the
// complete frame received from the peer and relay it untouched.
type revision struct {
	Header  *wire.Header
	Content []byte
}

type chans struct {
	Sender   chan<- revision
	Receiver <-chan revision
}

// serverConns keeps the latest revision of every sample, identified by its sender, kind and key.
// Older and repeated revisions are dropped. New connections receive the stored revisions first,
// then the live ones. A revision is never sent back to the peer which announced it.
type serverConns struct {
	mu      sync.RWMutex
	conns   map[wire.PeerID]chans
	samples map[revDescriptor]revision
}

func newServerConns() *serverConns {
	return &serverConns{
		conns:   map[wire.PeerID]chans{},
		samples: map[revDescriptor]revision{},
	}
}

func (c *serverConns) Add(peerID wire.PeerID) <-chan revision {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan revision, len(c.samples)+queueSize)

	if ch, ok := c.conns[peerID]; ok {
		close(ch.Sender)
	}

	c.conns[peerID] = chans{Sender: ch, Receiver: ch}

	for _, s := range c.samples {
		ch <- s
	}

	return ch
}

func (c *serverConns) Remove(peerID wire.PeerID, ch <-chan revision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if chs, exists := c.conns[peerID]; exists && chs.Receiver == ch {
		delete(c.conns, peerID)
		close(chs.Sender)
	}
}

func (c *serverConns) Broadcast(rev revision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	revDesc := revDescriptor{
		Sample: rev.Header.Revision.Sample,
		Sender: rev.Header.Sender,
	}

	if existing, exists := c.samples[revDesc]; exists &&
		existing.Header.Revision.Index >= rev.Header.Revision.Index {
		return
	}

	c.samples[revDesc] = rev

	for _, conn := range c.conns {
		conn.Sender <- rev
	}
}

// ServerConfig defines server configuration.
type ServerConfig struct {
	Servers        []string
	MaxMessageSize uint64
}

// RunServer runs discovery server relaying announcements between participants.
// Every server keeps the latest revision of each announced entity and replays it to new peers.
func RunServer(ctx context.Context, ls net.Listener, config ServerConfig) error {
	serverID, err := peerID()
	if err != nil {
		return err
	}

	conns := newServerConns()
	connConfig := resonance.Config{
		MaxMessageSize: config.MaxMessageSize,
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) (err error) {
		spawn("server", parallel.Fail, func(ctx context.Context) error {
			return resonance.RunServer(ctx, ls, connConfig,
				func(ctx context.Context, c *resonance.Connection) error {
					return runServerConn(ctx, serverID, c, conns)
				})
		})

		for _, s := range config.Servers {
			spawn("client", parallel.Continue, func(ctx context.Context) error {
				log := logger.Get(ctx)

				for {
					err := resonance.RunClient(ctx, s, connConfig,
						func(ctx context.Context, c *resonance.Connection) error {
							return runServerConn(ctx, serverID, c, conns)
						})

					if ctx.Err() != nil {
						return errors.WithStack(ctx.Err())
					}

					if errors.Is(err, errSameServer) {
						return nil
					}

					log.Error("Discovery server connection failed", zap.String("server", s), zap.Error(err))
					select {
					case <-ctx.Done():
						return errors.WithStack(ctx.Err())
					case <-time.After(time.Second):
					}
				}
			})
		}

		return nil
	})
}

func runServerConn(
	ctx context.Context,
	serverID wire.PeerID,
	c *resonance.Connection,
	conns *serverConns,
) error {
	m := wire.NewMarshaller()

	if err := c.SendProton(&wire.Hello{
		PeerID:   serverID,
		IsServer: true,
	}, m); err != nil {
		return err
	}

	msg, err := c.ReceiveProton(m)
	if err != nil {
		return err
	}

	helloMsg, ok := msg.(*wire.Hello)
	if !ok {
		return errors.New("hello message expected")
	}

	if helloMsg.PeerID == serverID {
		return errSameServer
	}

	kinds := map[wire.Kind]struct{}{}
	for _, k := range helloMsg.Kinds {
		kinds[k] = struct{}{}
	}

	sendCh := conns.Add(helloMsg.PeerID)

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("receiver", parallel.Fail, func(ctx context.Context) error {
			defer conns.Remove(helloMsg.PeerID, sendCh)

			for {
				msg, err := c.ReceiveProton(m)
				if err != nil {
					return err
				}

				headerMsg, ok := msg.(*wire.Header)
				if !ok {
					return errors.New("header message expected")
				}

				content, err := c.ReceiveRawBytes()
				if err != nil {
					return err
				}

				conns.Broadcast(revision{
					Header:  headerMsg,
					Content: content,
				})
			}
		})
		spawn("sender", parallel.Fail, func(ctx context.Context) error {
			defer func() {
				for range sendCh {
				}
			}()
			defer c.Close()

			for rev := range sendCh {
				if _, exists := kinds[rev.Header.Revision.Sample.Kind]; !exists && !helloMsg.IsServer {
					continue
				}
				if rev.Header.Sender == helloMsg.PeerID {
					continue
				}

				if err := c.SendProton(rev.Header, m); err != nil {
					return err
				}
				if err := c.SendRawBytes(rev.Content); err != nil {
					return err
				}
			}

			return nil
		})

		return nil
	})
}
