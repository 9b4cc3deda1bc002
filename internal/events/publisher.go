package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Subjects published by the workflow, relative to the configured prefix.
const (
	SubjectEnrollmentRecorded = "enrollment.recorded"
	SubjectExamGraded         = "exam.graded"
	SubjectCertificateIssued  = "certificate.issued"
)

// Publisher emits best-effort workflow events for downstream consumers
// (notification fan-out, analytics). Publishing never fails a workflow: the
// ledger receipt is the durable record, events are advisory.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// New constructs a Publisher. A nil connection yields a no-op publisher.
func New(conn *nats.Conn, prefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Publish serializes the payload and emits it on the prefixed subject.
func (p *Publisher) Publish(subject string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode event payload")
		return
	}

	full := fmt.Sprintf("%s.%s", p.prefix, subject)
	if err := p.conn.Publish(full, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish event")
		return
	}

	p.logger.Debug().Str("subject", full).Msg("event published")
}
