// internal/chatbot/chatbot.go
package chatbot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/common/metrics"
	"wellness-dashboard/internal/common/observability"
	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// Bot answers wellness questions over the current record store snapshot.
// Each query is a pure computation over one snapshot; the optional redis
// reply cache keys on the snapshot version, so a store swap invalidates it
// without any explicit flush.
type Bot struct {
	resources *Resources
	resolver  *Resolver
	synth     *Synthesizer
	stores    *store.Manager

	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration

	obs    *observability.Observability
	logger logger.Logger
}

// Options configures optional Bot collaborators.
type Options struct {
	Cache    *redis.Client
	CacheTTL time.Duration
	Obs      *observability.Observability
}

func New(resources *Resources, stores *store.Manager, log logger.Logger, opts Options) *Bot {
	return &Bot{
		resources: resources,
		resolver:  NewResolver(),
		synth:     NewSynthesizer(),
		stores:    stores,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		obs:       opts.Obs,
		logger:    log.WithFields(map[string]interface{}{"component": "chatbot"}),
	}
}

// SubmitQuery is the single entry point for the dialogue driver: it records
// the user turn, resolves and synthesizes a reply, records the bot turn and
// returns the reply text. Failures never escape as errors; every outcome is
// a user-facing string.
func (b *Bot) SubmitQuery(ctx context.Context, session *Session, query string) string {
	start := time.Now()

	session.Record(models.Turn{User: query})

	if strings.TrimSpace(query) == "" {
		session.Record(models.Turn{Bot: emptyQueryReply})
		return emptyQueryReply
	}

	snap := b.stores.Current()

	if reply, ok := b.cachedReply(ctx, snap, query); ok {
		metrics.ChatCacheHits.Inc()
		session.Record(models.Turn{Bot: reply})
		return reply
	}
	if b.cache != nil {
		metrics.ChatCacheMisses.Inc()
	}

	desc := b.resolver.Resolve(query, snap)

	b.logger.Debug("query resolved", map[string]interface{}{
		"queryType": string(desc.QueryType),
		"intent":    string(desc.Intent),
		"tokens":    b.resources.Normalize(query),
	})

	reply := b.synth.Synthesize(desc, query, snap)

	session.Record(models.Turn{Bot: reply})
	b.storeReply(ctx, snap, query, reply)

	metrics.ChatQueriesTotal.WithLabelValues(string(desc.QueryType), string(desc.Intent)).Inc()
	metrics.ChatQueryDuration.WithLabelValues(string(desc.QueryType)).Observe(time.Since(start).Seconds())
	if b.obs != nil {
		b.obs.RecordQueryProcessed(ctx, string(desc.QueryType))
		b.obs.RecordQueryDuration(ctx, time.Since(start), string(desc.QueryType))
	}

	return reply
}

func (b *Bot) cacheKey(snap *store.Snapshot, query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "chat:reply:" + snap.Version() + ":" + hex.EncodeToString(sum[:16])
}

func (b *Bot) cachedReply(ctx context.Context, snap *store.Snapshot, query string) (string, bool) {
	if b.cache == nil || snap == nil {
		return "", false
	}

	reply, err := b.cache.Get(ctx, b.cacheKey(snap, query)).Result()
	if err != nil {
		if err != redis.Nil {
			b.logger.Warn("reply cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return "", false
	}
	return reply, true
}

func (b *Bot) storeReply(ctx context.Context, snap *store.Snapshot, query, reply string) {
	if b.cache == nil || snap == nil {
		return
	}

	if err := b.cache.Set(ctx, b.cacheKey(snap, query), reply, b.cacheTTL).Err(); err != nil {
		b.logger.Warn("reply cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
