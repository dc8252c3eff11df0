// internal/pkg/boundary/boundary.go

// Package boundary contains failures raised while composing a page so a
// request always ends with a renderable result.
package boundary

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// GenericMessage is what users see instead of the underlying failure.
const GenericMessage = "Đã xảy ra lỗi, vui lòng thử lại sau."

// Severity tags for logged failures
const (
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Recorder receives a count of every contained failure.
type Recorder interface {
	IncRecovered(scope, severity string)
}

// Boundary logs contained failures
type Boundary struct {
	logger   *logrus.Entry
	recorder Recorder
}

// New creates a boundary. recorder may be nil.
func New(logger *logrus.Logger, recorder Recorder) *Boundary {
	return &Boundary{
		logger:   logger.WithField("component", "boundary"),
		recorder: recorder,
	}
}

// Result is the outcome of a guarded step
type Result[T any] struct {
	Value   T
	Failed  bool
	Message string
}

// Guard runs fn and returns its value. An error or a panic is logged with a
// severity tag and replaced by fallback plus the generic message.
func Guard[T any](b *Boundary, scope string, fallback T, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			b.report(scope, SeverityCritical, fmt.Errorf("panic: %v", r), logrus.Fields{
				"stack": string(debug.Stack()),
			})
			res = Result[T]{Value: fallback, Failed: true, Message: GenericMessage}
		}
	}()

	value, err := fn()
	if err != nil {
		b.report(scope, SeverityError, err, nil)
		return Result[T]{Value: fallback, Failed: true, Message: GenericMessage}
	}
	return Result[T]{Value: value}
}

func (b *Boundary) report(scope, severity string, err error, extra logrus.Fields) {
	if b == nil {
		return
	}
	entry := b.logger.WithFields(logrus.Fields{
		"scope":    scope,
		"severity": severity,
	}).WithFields(extra).WithError(err)
	if severity == SeverityCritical {
		entry.Error("Recovered from panic while composing page")
	} else {
		entry.Warn("Page step failed, serving fallback")
	}
	if b.recorder != nil {
		b.recorder.IncRecovered(scope, severity)
	}
}
