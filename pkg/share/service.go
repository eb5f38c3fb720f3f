// Package share builds emergency share links from a profile and renders
// the report a responder sees when opening one.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulseid/platform/pkg/codec"
	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/observability/metrics"
	"github.com/pulseid/platform/pkg/report"
	"github.com/pulseid/platform/pkg/risk"
	"github.com/sirupsen/logrus"
)

const eventSource = "pulseid-service"

var (
	ErrPayloadTooLarge     = errors.New("payload too large for QR code")
	ErrShortLinksDisabled  = errors.New("short links are not configured")
	ErrInvalidViewerURL    = errors.New("invalid viewer base URL")
	ErrInvalidShortLinkURL = errors.New("invalid short link base URL")
)

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type Config struct {
	ViewerBaseURL    string
	ShortLinkBaseURL string
	ErrorCorrection  ErrorCorrection
	Compress         bool
	LinkTTL          time.Duration
}

type Service struct {
	transport codec.Transport
	compactor *codec.Compactor
	engine    *risk.Engine
	links     LinkStore
	events    EventPublisher
	viewer    *url.URL
	shortBase string
	ecc       ErrorCorrection
	linkTTL   time.Duration
	now       func() time.Time
	log       *logrus.Entry
}

type Option func(*Service)

func WithCompactor(c *codec.Compactor) Option {
	return func(s *Service) {
		s.compactor = c
	}
}

// WithClock sets the time used for link expiry and report dating.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the share flow. links and events may be nil; short
// links are then refused and events are skipped.
func NewService(cfg Config, engine *risk.Engine, links LinkStore, events EventPublisher, opts ...Option) (*Service, error) {
	viewer, err := url.Parse(cfg.ViewerBaseURL)
	if err != nil || viewer.Scheme == "" || viewer.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidViewerURL, cfg.ViewerBaseURL)
	}
	if cfg.ShortLinkBaseURL != "" {
		if u, err := url.Parse(cfg.ShortLinkBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidShortLinkURL, cfg.ShortLinkBaseURL)
		}
	}
	ecc := cfg.ErrorCorrection
	if ecc == "" {
		ecc = ECCHigh
	}
	if ecc.Capacity() == 0 {
		return nil, fmt.Errorf("unknown error correction level %q", ecc)
	}
	if engine == nil {
		engine = risk.NewEngine(risk.DefaultVocabulary())
	}

	s := &Service{
		transport: codec.NewTransport(cfg.Compress),
		compactor: codec.NewCompactor(),
		engine:    engine,
		links:     links,
		events:    events,
		viewer:    viewer,
		shortBase: strings.TrimRight(cfg.ShortLinkBaseURL, "/"),
		ecc:       ecc,
		linkTTL:   cfg.LinkTTL,
		now:       time.Now,
		log:       logger.WithComponent("share"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type ShareOptions struct {
	AttachRisk bool `json:"attachRisk"`
	ShortLink  bool `json:"shortLink"`
}

// Link describes a generated share. It never carries profile contents
// beyond what is already inside URL.
type Link struct {
	ShareID         string                 `json:"shareId"`
	URL             string                 `json:"url"`
	ShortCode       string                 `json:"shortCode,omitempty"`
	ShortURL        string                 `json:"shortUrl,omitempty"`
	PayloadBytes    int                    `json:"payloadBytes"`
	URLBytes        int                    `json:"urlBytes"`
	Capacity        int                    `json:"capacity"`
	ErrorCorrection ErrorCorrection        `json:"errorCorrection"`
	Risk            *models.RiskAssessment `json:"risk,omitempty"`
	ExpiresAt       *time.Time             `json:"expiresAt,omitempty"`
}

func (s *Service) Share(ctx context.Context, p models.Profile, opts ShareOptions) (Link, error) {
	if opts.ShortLink && s.links == nil {
		return Link{}, ErrShortLinksDisabled
	}

	if opts.AttachRisk {
		ra := s.engine.Assess(p)
		p.RiskAssessment = &ra
	}

	text, err := s.transport.Serialize(s.compactor.Compact(p))
	if err != nil {
		return Link{}, err
	}
	viewerURL := s.viewerURL(text)

	link := Link{
		ShareID:         uuid.New().String(),
		URL:             viewerURL,
		PayloadBytes:    len(text),
		URLBytes:        len(viewerURL),
		Capacity:        s.ecc.Capacity(),
		ErrorCorrection: s.ecc,
		Risk:            p.RiskAssessment,
	}
	if link.URLBytes > link.Capacity {
		metrics.ObserveShareRejected()
		return Link{}, fmt.Errorf("%w: %d bytes exceeds %d at level %s", ErrPayloadTooLarge, link.URLBytes, link.Capacity, s.ecc)
	}

	if opts.ShortLink {
		code, err := s.links.Save(ctx, viewerURL, s.linkTTL)
		if err != nil {
			return Link{}, err
		}
		link.ShortCode = code
		if s.shortBase != "" {
			link.ShortURL = s.shortBase + "/" + code
		}
		if s.linkTTL > 0 {
			expires := s.now().UTC().Add(s.linkTTL)
			link.ExpiresAt = &expires
		}
	}

	data := map[string]interface{}{
		"share_id":      link.ShareID,
		"payload_bytes": link.PayloadBytes,
		"url_bytes":     link.URLBytes,
		"ecc_level":     string(s.ecc),
		"short_link":    link.ShortCode != "",
	}
	if link.Risk != nil {
		data["risk_level"] = link.Risk.Level.String()
	}
	s.publish(ctx, models.EventProfileShared, data)
	metrics.ObserveShare(link.URLBytes, link.ShortCode != "")

	s.log.WithFields(logrus.Fields{
		"share_id":      link.ShareID,
		"payload_bytes": link.PayloadBytes,
		"url_bytes":     link.URLBytes,
	}).Info("profile shared")
	return link, nil
}

type ViewOptions struct {
	SimulateVitals bool
}

// View turns the data parameter of a viewer URL into a report. Decode and
// missing-field errors are returned as is so callers can show an error
// state instead of a partial report.
func (s *Service) View(ctx context.Context, text string, opts ViewOptions) (report.Report, error) {
	payload, err := s.transport.Parse(text)
	if err != nil {
		metrics.ObserveView(false)
		return report.Report{}, err
	}
	p, err := codec.Expand(payload)
	if err != nil {
		metrics.ObserveView(false)
		return report.Report{}, err
	}

	ra := s.engine.Assess(p)
	var vitals *models.Vitals
	if opts.SimulateVitals {
		v := risk.SimulateVitals(p)
		vitals = &v
	}

	metrics.ObserveView(true)
	s.publish(ctx, models.EventReportViewed, map[string]interface{}{
		"payload_bytes":  len(text),
		"risk_level":     ra.Level.String(),
		"schema_version": payload.V,
	})
	return report.Build(p, ra, report.Options{Vitals: vitals}), nil
}

func (s *Service) Assess(p models.Profile) models.RiskAssessment {
	return s.engine.Assess(p)
}

// Resolve returns the viewer URL stored for a short code.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if s.links == nil || !validCode(code) {
		return "", ErrLinkNotFound
	}
	target, err := s.links.Resolve(ctx, code)
	if err != nil {
		return "", err
	}
	metrics.ObserveLinkResolved()
	return target, nil
}

func (s *Service) viewerURL(text string) string {
	u := *s.viewer
	q := u.Query()
	q.Set("data", text)
	u.RawQuery = q.Encode()
	return u.String()
}

// publish logs and drops failures.
func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		s.log.WithError(err).WithField("event_type", eventType).Warn("failed to publish share event")
	}
}
