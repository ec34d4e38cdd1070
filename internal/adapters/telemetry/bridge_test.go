package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rscd/internal/adapters/telemetry"
	"go.trai.ch/rscd/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_Lifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockSpanReporter(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(reporter)))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer("test")

	var parentID string
	gomock.InOrder(
		reporter.EXPECT().OnSpanStart(gomock.Any(), "", "parent", gomock.Any()).
			Do(func(spanID, _, _ string, _ time.Time) { parentID = spanID }),
		reporter.EXPECT().OnSpanStart(gomock.Any(), gomock.Any(), "child", gomock.Any()).
			Do(func(_, parent, _ string, _ time.Time) { assert.Equal(t, parentID, parent) }),
		reporter.EXPECT().OnSpanEnd(gomock.Any(), gomock.Any(), nil),
		reporter.EXPECT().OnSpanEnd(gomock.Any(), gomock.Any(), nil),
	)

	ctx, parent := tracer.Start(context.Background(), "parent")
	_, child := tracer.Start(ctx, "child")
	child.End()
	parent.End()
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockSpanReporter(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(reporter)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	reporter.EXPECT().OnSpanStart(gomock.Any(), gomock.Any(), "failing", gomock.Any())
	reporter.EXPECT().OnSpanEnd(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Time, err error) {
			assert.EqualError(t, err, "discovery failed")
		})

	_, span := tp.Tracer("test").Start(context.Background(), "failing")
	span.SetStatus(codes.Error, "discovery failed")
	span.End()
}

func TestBridge_NilReporter(_ *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "ignored")
	span.End()
}

func TestInstall(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockSpanReporter(ctrl)

	shutdown := telemetry.Install(reporter)
	defer func() { _ = shutdown(context.Background()) }()

	reporter.EXPECT().OnSpanStart(gomock.Any(), "", "installed", gomock.Any())
	reporter.EXPECT().OnSpanEnd(gomock.Any(), gomock.Any(), nil)

	_, span := otel.Tracer("test").Start(context.Background(), "installed")
	span.End()
}
