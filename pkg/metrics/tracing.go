package metrics

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Span is a segment of the New Relic transaction carried by a context. A nil
// Span is valid and does nothing, which is what StartSpan returns when there's
// no transaction.
type Span struct {
	txn *newrelic.Transaction
	seg *newrelic.Segment
}

// StartSpan opens a segment named after the component and operation.
func StartSpan(ctx context.Context, component, operation string) *Span {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}

	return &Span{
		txn: txn,
		seg: txn.StartSegment(fmt.Sprintf("%s %s", component, operation)),
	}
}

func (s *Span) SetAttribute(key string, value interface{}) {
	if s == nil {
		return
	}
	s.seg.AddAttribute(key, value)
}

// Fail reports err on the enclosing transaction. Nil errors are ignored.
func (s *Span) Fail(err error) {
	if s == nil || err == nil {
		return
	}
	s.txn.NoticeError(err)
}

func (s *Span) End() {
	if s == nil {
		return
	}
	s.seg.End()
}
