package dds

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/resonance"

	"github.com/greenstonesoft/greenstone-dds-sub002/builtin"
	"github.com/greenstonesoft/greenstone-dds-sub002/cdr"
	"github.com/greenstonesoft/greenstone-dds-sub002/discovery"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
	"github.com/greenstonesoft/greenstone-dds-sub002/wire"
)

type clientConns struct {
	clientID wire.PeerID
	cache    *discovery.Cache
	opts     []cdr.Option
	recvCh   chan<- discovery.Event

	mu              sync.RWMutex
	conns           map[<-chan revision]chan<- revision
	sentSamples     map[wire.Sample]revision
	receivedSamples map[revDescriptor]wire.Revision
}

func newClientConns(
	clientID wire.PeerID,
	cache *discovery.Cache,
	opts []cdr.Option,
	recvCh chan<- discovery.Event,
) *clientConns {
	return &clientConns{
		clientID:        clientID,
		cache:           cache,
		opts:            opts,
		recvCh:          recvCh,
		conns:           map[<-chan revision]chan<- revision{},
		sentSamples:     map[wire.Sample]revision{},
		receivedSamples: map[revDescriptor]wire.Revision{},
	}
}

func (c *clientConns) Add() <-chan revision {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan revision, len(c.sentSamples)+queueSize)
	c.conns[ch] = ch

	for _, s := range c.sentSamples {
		ch <- s
	}

	return ch
}

func (c *clientConns) Remove(ch <-chan revision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch2, exists := c.conns[ch]; exists {
		delete(c.conns, ch)
		close(ch2)
	}
}

func (c *clientConns) Broadcast(sample wire.Sample, content []byte, disposed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var revIndex wire.Revision
	if prev, exists := c.sentSamples[sample]; exists {
		revIndex = prev.Header.Revision.Index + 1
	}

	rev := revision{
		Header: &wire.Header{
			Sender: c.clientID,
			Revision: wire.RevisionDescriptor{
				Sample: sample,
				Index:  revIndex,
			},
			Disposed: disposed,
		},
		Content: content,
	}

	c.sentSamples[sample] = rev

	for _, ch := range c.conns {
		ch <- rev
	}
}

func (c *clientConns) Deliver(ctx context.Context, header *wire.Header, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if header.Sender == c.clientID {
		return nil
	}

	revDesc := revDescriptor{
		Sample: header.Revision.Sample,
		Sender: header.Sender,
	}

	if existing, exists := c.receivedSamples[revDesc]; exists && existing >= header.Revision.Index {
		return nil
	}

	c.receivedSamples[revDesc] = header.Revision.Index

	kind := builtin.Kind(header.Revision.Sample.Kind)
	key := rtps.BuiltinTopicKey(header.Revision.Sample.Key)
	log := logger.Get(ctx).With(
		zap.Stringer("sender", rtps.GuidPrefix(header.Sender)),
		zap.Stringer("kind", kind),
		zap.Stringer("key", key),
	)

	var event discovery.Event
	if header.Disposed {
		event = c.cache.Dispose(ctx, kind, key)
	} else {
		a, err := builtin.Unmarshal(kind, content, c.opts...)
		if err != nil {
			log.Warn("Malformed announcement dropped", zap.Error(err))
			return nil
		}
		if a.BuiltinTopicKey() != key {
			log.Warn("Announcement key mismatch, dropped", zap.Stringer("announced", a.BuiltinTopicKey()))
			return nil
		}
		event = c.cache.Apply(ctx, rtps.GuidPrefix(header.Sender), uint64(header.Revision.Index), a)
	}

	if event.Type == discovery.EventIgnored {
		return nil
	}

	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case c.recvCh <- event:
	}

	return nil
}

// ClientConfig is the config of client.
type ClientConfig struct {
	Servers        []string
	MaxMessageSize uint64

	// Prefix is the GUID prefix of the local participant. Random one is generated if unknown.
	Prefix rtps.GuidPrefix

	// Kinds lists builtin topics to receive. All of them are received if empty.
	Kinds []builtin.Kind

	// Options are applied when encoding and decoding parameter lists.
	Options []cdr.Option
}

// Client announces local entities to discovery servers and receives announcements of remote ones.
type Client struct {
	config ClientConfig
	prefix rtps.GuidPrefix
	kinds  []wire.Kind
	cache  *discovery.Cache
	conns  *clientConns
}

// NewClient creates new client.
func NewClient(config ClientConfig) (*Client, <-chan discovery.Event, error) {
	if len(config.Servers) == 0 {
		return nil, nil, errors.New("no servers specified")
	}

	prefix := config.Prefix
	if prefix.IsUnknown() {
		var err error
		prefix, err = rtps.NewGuidPrefix(rtps.VendorIDGreen)
		if err != nil {
			return nil, nil, err
		}
	}

	kinds := config.Kinds
	if len(kinds) == 0 {
		kinds = builtin.Kinds
	}

	cache := discovery.NewCache()
	recvCh := make(chan discovery.Event, queueSize)
	return &Client{
		config: config,
		prefix: prefix,
		kinds:  kindsToWire(kinds),
		cache:  cache,
		conns:  newClientConns(wire.PeerID(prefix), cache, config.Options, recvCh),
	}, recvCh, nil
}

// Prefix returns GUID prefix of the local participant.
func (client *Client) Prefix() rtps.GuidPrefix {
	return client.prefix
}

// Cache returns the cache of discovered entities.
func (client *Client) Cache() *discovery.Cache {
	return client.cache
}

// Run runs client.
func (client *Client) Run(ctx context.Context) error {
	defer close(client.conns.recvCh)

	connConfig := resonance.Config{
		MaxMessageSize: client.config.MaxMessageSize,
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for _, server := range client.config.Servers {
			spawn("conn", parallel.Fail, func(ctx context.Context) error {
				log := logger.Get(ctx)

				for {
					err := resonance.RunClient(ctx, server, connConfig,
						func(ctx context.Context, c *resonance.Connection) error {
							return client.runConn(ctx, c)
						})

					if ctx.Err() != nil {
						return errors.WithStack(ctx.Err())
					}

					log.Error("Discovery server connection failed", zap.String("server", server), zap.Error(err))
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

// Announce sends new revision of local entity to servers.
func (client *Client) Announce(a builtin.Announcement) error {
	key := a.BuiltinTopicKey()
	if key.IsUnknown() {
		return errors.Errorf("%s announcement has no key", a.Kind())
	}

	content, err := a.MarshalParameterList(client.config.Options...)
	if err != nil {
		return err
	}

	client.conns.Broadcast(wire.Sample{
		Kind: wire.Kind(a.Kind()),
		Key:  wire.Key(key),
	}, content, false)
	return nil
}

// Dispose tells servers that local entity no longer exists.
func (client *Client) Dispose(kind builtin.Kind, key rtps.BuiltinTopicKey) {
	client.conns.Broadcast(wire.Sample{
		Kind: wire.Kind(kind),
		Key:  wire.Key(key),
	}, key[:], true)
}

func (client *Client) runConn(ctx context.Context, c *resonance.Connection) error {
	m := wire.NewMarshaller()

	if err := c.SendProton(&wire.Hello{
		PeerID: client.conns.clientID,
		Kinds:  client.kinds,
	}, m); err != nil {
		return err
	}

	msg, err := c.ReceiveProton(m)
	if err != nil {
		return err
	}

	_, ok := msg.(*wire.Hello)
	if !ok {
		return errors.New("hello message expected")
	}

	sendCh := client.conns.Add()

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("receiver", parallel.Fail, func(ctx context.Context) error {
			defer client.conns.Remove(sendCh)

			for {
				msg, err := c.ReceiveProton(m)
				if err != nil {
					return err
				}

				headerMsg, ok := msg.(*wire.Header)
				if !ok {
					return errors.New("header message expected")
				}

				msg, err = c.ReceiveProton(m)
				if err != nil {
					return err
				}

				contentMsg, ok := msg.(*wire.Content)
				if !ok {
					return errors.New("content message expected")
				}

				if err := client.conns.Deliver(ctx, headerMsg, contentMsg.Payload); err != nil {
					return err
				}
			}
		})
		spawn("sender", parallel.Fail, func(ctx context.Context) error {
			defer func() {
				for range sendCh {
				}
			}()
			defer c.Close()

			for rev := range sendCh {
				if err := c.SendProton(rev.Header, m); err != nil {
					return err
				}
				if err := c.SendProton(&wire.Content{Payload: rev.Content}, m); err != nil {
					return err
				}
			}

			return nil
		})

		return nil
	})
}
