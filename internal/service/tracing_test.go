package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTraceUseCaseObserver_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var logs bytes.Buffer
	database := testutil.NewTestDB(t)
	svc := NewLeadService(repository.NewSQLiteLeadRepo(database), testutil.NewTestUoW(database),
		NewLogUseCaseObserver(&logs), NewTraceUseCaseObserver(tp))
	ctx := context.Background()

	lead := testutil.NewTestLead("Lisbon")
	require.NoError(t, svc.Create(ctx, testutil.TestAdmin, lead))
	_, err := svc.Purchase(ctx, testutil.TestAgent, lead.ID)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, testutil.OtherAgent, lead.ID)
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "create-lead", spans[0].Name())
	assert.Equal(t, "purchase-lead", spans[1].Name())

	agent, ok := spanAttr(spans[1], "use_case.agent")
	require.True(t, ok)
	assert.Equal(t, testutil.TestAgent.UserID, agent.AsString())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.False(t, spans[1].EndTime().Before(spans[1].StartTime()))

	failed := spans[2]
	assert.Equal(t, codes.Error, failed.Status().Code)
	success, _ := spanAttr(failed, "use_case.success")
	assert.False(t, success.AsBool())
	require.NotEmpty(t, failed.Events(), "the error is recorded as an event")

	assert.Contains(t, logs.String(), "use_case=purchase-lead", "observers fan out")
}

func TestNewTraceUseCaseObserver_NilProviderIsNoop(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, NewTraceUseCaseObserver(nil))
}

func TestFieldAttribute_Types(t *testing.T) {
	assert.Equal(t, attribute.IntValue(3), fieldAttribute("k", 3).Value)
	assert.Equal(t, attribute.StringValue("x"), fieldAttribute("k", "x").Value)
	assert.Equal(t, attribute.StringValue("[a b]"), fieldAttribute("k", []string{"a", "b"}).Value)
}
