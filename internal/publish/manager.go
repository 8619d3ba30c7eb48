// Package publish fans a verified editorial out to every configured
// locale and verifies each publication by reading it back.
package publish

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omegaup-tools/editorialgen/internal/cache"
	"github.com/omegaup-tools/editorialgen/internal/judge"
	"github.com/omegaup-tools/editorialgen/internal/logger"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var tracer = otel.Tracer("github.com/omegaup-tools/editorialgen/internal/publish")

// Policy decides when a publication round counts as successful.
type Policy string

const (
	// PolicyAny succeeds when at least one locale verifies.
	PolicyAny Policy = "any"
	// PolicyAll requires every locale to verify.
	PolicyAll Policy = "all"
)

// minEditorialLength backs the verification heuristic when the judge
// normalizes markdown on ingest and an exact read-back comparison can
// no longer hold.
const minEditorialLength = 500

var editorialMarkers = []string{
	"Editorial:",
	"AI-generated",
	"IA",
}

type Manager struct {
	grader  judge.Grader
	store   cache.Store
	locales []string
	policy  Policy
	settle  time.Duration
	sleep   func(context.Context, time.Duration)
}

func NewManager(
	grader judge.Grader,
	store cache.Store,
	locales []string,
	policy Policy,
	settle time.Duration,
) *Manager {
	return &Manager{
		grader:  grader,
		store:   store,
		locales: locales,
		policy:  policy,
		settle:  settle,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// PublishAll publishes the base editorial to every configured locale,
// adapting headings per locale, and verifies each publication by
// reading it back after caches are dropped. One failed locale never
// stops the others. The boolean result follows the configured policy.
func (m *Manager) PublishAll(
	ctx context.Context,
	alias, baseContent, message string,
) (map[string]types.PublicationTarget, bool) {
	ctx, span := tracer.Start(ctx, "Manager.PublishAll", trace.WithAttributes(
		attribute.String("problem", alias),
		attribute.StringSlice("locales", m.locales),
		attribute.String("policy", string(m.policy)),
	))
	defer span.End()

	targets := make(map[string]types.PublicationTarget, len(m.locales))
	verified := 0

	for _, locale := range m.locales {
		target := m.publishOne(ctx, alias, locale, baseContent, message)
		targets[locale] = target
		if target.Verified {
			verified++
		}
	}

	ok := verified > 0
	if m.policy == PolicyAll {
		ok = verified == len(m.locales)
	}

	span.AddEvent("published", trace.WithAttributes(
		attribute.Int("verified", verified),
		attribute.Int("requested", len(m.locales)),
	))
	if !ok {
		span.SetStatus(codes.Error, "publication policy not met")
		return targets, false
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "publication policy met")
	return targets, true
}

func (m *Manager) publishOne(
	ctx context.Context,
	alias, locale, baseContent, message string,
) types.PublicationTarget {
	ctx, span := tracer.Start(ctx, "Manager.publishOne", trace.WithAttributes(
		attribute.String("problem", alias),
		attribute.String("locale", locale),
	))
	defer span.End()

	target := types.PublicationTarget{
		Locale:  locale,
		Content: AdaptLocale(baseContent, locale),
	}

	// A rerun that produced identical content has nothing to publish;
	// the cached copy was stored only after a verified read-back.
	if cached, ok := m.store.GetSolution(ctx, alias, locale); ok && cached == target.Content {
		logger.Logger.InfoContext(ctx, "locale already published with identical content",
			"problem", alias, "locale", locale)
		target.Published = true
		target.Verified = true
		span.AddEvent("cache_hit")
		span.SetStatus(codes.Ok, "locale already published")
		return target
	}

	err := m.grader.UpdateSolution(ctx, alias, locale, target.Content, message)
	if err != nil {
		logger.Logger.ErrorContext(ctx, "failed to publish locale",
			"error", err, "problem", alias, "locale", locale)
		target.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish call failed")
		return target
	}
	target.Published = true

	// The judge materializes the new revision asynchronously; bust
	// frontend caches, drop our own, then give it a moment before the
	// read-back.
	m.grader.InvalidateCaches(ctx, alias, []string{locale})
	m.store.Invalidate(ctx, alias, []string{locale})
	m.sleep(ctx, m.settle)

	got, err := m.grader.Solution(ctx, alias, locale)
	if err != nil {
		logger.Logger.ErrorContext(ctx, "failed to read publication back",
			"error", err, "problem", alias, "locale", locale)
		target.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification read failed")
		return target
	}

	target.Verified = verifies(target.Content, got)
	if !target.Verified {
		logger.Logger.WarnContext(ctx, "publication did not verify",
			"problem", alias, "locale", locale, "got_length", len(got))
		span.SetStatus(codes.Error, "read back different content")
		return target
	}

	m.store.SetSolution(ctx, alias, locale, got)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "locale published and verified")
	return target
}

// verifies decides whether the content read back is the content we
// published. Exact equality is authoritative; when the judge rewrites
// markdown on ingest the heuristic accepts content that carries our
// signature markers or is editorial-sized.
func verifies(published, got string) bool {
	if got == "" {
		return false
	}
	if got == published {
		return true
	}
	for _, marker := range editorialMarkers {
		if strings.Contains(got, marker) {
			return true
		}
	}
	return len(got) > minEditorialLength
}
