package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestTracerResource(t *testing.T) {
	res, err := tracerResource(TracerConfig{Env: "production", ServiceVersion: "1.4.0"})
	require.NoError(t, err)

	attrs := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}

	assert.Equal(t, serviceName, attrs["service.name"])
	assert.Equal(t, "1.4.0", attrs["service.version"])
	assert.Equal(t, "production", attrs["deployment.environment"])
}

func TestTracerSampler(t *testing.T) {
	root := func(s sdktrace.Sampler, id byte) sdktrace.SamplingDecision {
		var traceID trace.TraceID
		for i := range traceID {
			traceID[i] = id
		}
		return s.ShouldSample(sdktrace.SamplingParameters{TraceID: traceID, Name: "op"}).Decision
	}

	assert.Equal(t, sdktrace.RecordAndSample, root(tracerSampler(1), 0xff))
	assert.Equal(t, sdktrace.RecordAndSample, root(tracerSampler(2), 0xff))
	assert.Equal(t, sdktrace.Drop, root(tracerSampler(0), 0x00))

	// ratio sampling keeps low trace ids and drops high ones
	assert.Equal(t, sdktrace.RecordAndSample, root(tracerSampler(0.5), 0x00))
	assert.Equal(t, sdktrace.Drop, root(tracerSampler(0.5), 0xff))
}
