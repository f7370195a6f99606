// Package discovery keeps the entities announced by remote participants.
package discovery

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/logger"

	"github.com/greenstonesoft/greenstone-dds-sub002/builtin"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
)

type record struct {
	Sender       rtps.GuidPrefix
	Revision     uint64
	Announcement builtin.Announcement
}

// Cache stores the latest announcement of every discovered entity.
// Stored announcements are never modified, updates replace them.
type Cache struct {
	mu      sync.RWMutex
	records map[builtin.Kind]map[rtps.BuiltinTopicKey]record
}

// NewCache creates empty cache.
func NewCache() *Cache {
	records := map[builtin.Kind]map[rtps.BuiltinTopicKey]record{}
	for _, k := range builtin.Kinds {
		records[k] = map[rtps.BuiltinTopicKey]record{}
	}
	return &Cache{
		records: records,
	}
}

// Apply stores announcement received from sender.
// Revisions not newer than the stored one of the same sender are ignored.
func (c *Cache) Apply(ctx context.Context, sender rtps.GuidPrefix, revision uint64, a builtin.Announcement) Event {
	kind := a.Kind()
	key := a.BuiltinTopicKey()
	log := logger.Get(ctx).With(zap.Stringer("kind", kind), zap.Stringer("key", key))

	c.mu.Lock()
	defer c.mu.Unlock()

	records, exists := c.records[kind]
	if !exists {
		log.Warn("Announcement of unknown kind ignored")
		return Event{Type: EventIgnored, Kind: kind, Key: key}
	}

	prev, exists := records[key]
	if exists && prev.Sender == sender && prev.Revision >= revision {
		log.Debug("Stale announcement ignored", zap.Uint64("revision", revision))
		return Event{Type: EventIgnored, Kind: kind, Key: key, Announcement: prev.Announcement}
	}

	records[key] = record{
		Sender:       sender,
		Revision:     revision,
		Announcement: a,
	}

	event := Event{
		Kind:         kind,
		Key:          key,
		Announcement: a,
	}
	switch {
	case !exists:
		event.Type = EventNew
		log.Info("Entity discovered")
	default:
		event.Changed = builtin.QosChanged(prev.Announcement, a)
		if len(event.Changed) == 0 {
			event.Type = EventUnchanged
			break
		}
		event.Type = EventQosChanged
		log.Info("Entity QoS changed", zap.Stringers("policies", event.Changed))
	}
	return event
}

// Dispose removes entity from the cache.
// Disposing participant removes also its endpoints and topics.
func (c *Cache) Dispose(ctx context.Context, kind builtin.Kind, key rtps.BuiltinTopicKey) Event {
	log := logger.Get(ctx).With(zap.Stringer("kind", kind), zap.Stringer("key", key))

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, exists := c.records[kind][key]
	if !exists {
		log.Debug("Disposal of unknown entity ignored")
		return Event{Type: EventIgnored, Kind: kind, Key: key}
	}
	delete(c.records[kind], key)

	event := Event{
		Type:         EventDisposed,
		Kind:         kind,
		Key:          key,
		Announcement: prev.Announcement,
	}
	if kind == builtin.KindParticipant {
		prefix := key.GUID().Prefix
		for _, k := range []builtin.Kind{builtin.KindPublication, builtin.KindSubscription, builtin.KindTopic} {
			for entityKey := range c.records[k] {
				if entityKey.GUID().Prefix == prefix {
					delete(c.records[k], entityKey)
					event.Removed = append(event.Removed, entityKey)
				}
			}
		}
		slices.SortFunc(event.Removed, rtps.BuiltinTopicKey.Compare)
	}

	log.Info("Entity disposed", zap.Int("removed", len(event.Removed)))
	return event
}

// Participant returns discovered participant.
func (c *Cache) Participant(key rtps.BuiltinTopicKey) (*builtin.ParticipantBuiltinTopicData, bool) {
	return get[*builtin.ParticipantBuiltinTopicData](c, builtin.KindParticipant, key)
}

// Publication returns discovered publication.
func (c *Cache) Publication(key rtps.BuiltinTopicKey) (*builtin.PublicationBuiltinTopicData, bool) {
	return get[*builtin.PublicationBuiltinTopicData](c, builtin.KindPublication, key)
}

// Subscription returns discovered subscription.
func (c *Cache) Subscription(key rtps.BuiltinTopicKey) (*builtin.SubscriptionBuiltinTopicData, bool) {
	return get[*builtin.SubscriptionBuiltinTopicData](c, builtin.KindSubscription, key)
}

// Topic returns discovered topic.
func (c *Cache) Topic(key rtps.BuiltinTopicKey) (*builtin.TopicBuiltinTopicData, bool) {
	return get[*builtin.TopicBuiltinTopicData](c, builtin.KindTopic, key)
}

// Participants returns discovered participants sorted by key.
func (c *Cache) Participants() []*builtin.ParticipantBuiltinTopicData {
	return list[*builtin.ParticipantBuiltinTopicData](c, builtin.KindParticipant)
}

// Publications returns discovered publications sorted by key.
func (c *Cache) Publications() []*builtin.PublicationBuiltinTopicData {
	return list[*builtin.PublicationBuiltinTopicData](c, builtin.KindPublication)
}

// Subscriptions returns discovered subscriptions sorted by key.
func (c *Cache) Subscriptions() []*builtin.SubscriptionBuiltinTopicData {
	return list[*builtin.SubscriptionBuiltinTopicData](c, builtin.KindSubscription)
}

// Topics returns discovered topics sorted by key.
func (c *Cache) Topics() []*builtin.TopicBuiltinTopicData {
	return list[*builtin.TopicBuiltinTopicData](c, builtin.KindTopic)
}

// MatchedSubscriptions returns discovered subscriptions receiving data from the publication.
func (c *Cache) MatchedSubscriptions(pub *builtin.PublicationBuiltinTopicData) []*builtin.SubscriptionBuiltinTopicData {
	return lo.Filter(c.Subscriptions(), func(sub *builtin.SubscriptionBuiltinTopicData, _ int) bool {
		return builtin.Match(pub, sub).Matched()
	})
}

// MatchedPublications returns discovered publications delivering data to the subscription.
func (c *Cache) MatchedPublications(sub *builtin.SubscriptionBuiltinTopicData) []*builtin.PublicationBuiltinTopicData {
	return lo.Filter(c.Publications(), func(pub *builtin.PublicationBuiltinTopicData, _ int) bool {
		return builtin.Match(pub, sub).Matched()
	})
}

func get[T builtin.Announcement](c *Cache, kind builtin.Kind, key rtps.BuiltinTopicKey) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, exists := c.records[kind][key]
	if !exists {
		var zero T
		return zero, false
	}
	return r.Announcement.(T), true
}

func list[T builtin.Announcement](c *Cache, kind builtin.Kind) []T {
	c.mu.RLock()
	records := lo.Values(c.records[kind])
	c.mu.RUnlock()

	slices.SortFunc(records, func(r1, r2 record) int {
		return r1.Announcement.BuiltinTopicKey().Compare(r2.Announcement.BuiltinTopicKey())
	})
	return lo.Map(records, func(r record, _ int) T {
		return r.Announcement.(T)
	})
}
