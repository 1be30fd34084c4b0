package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("lambda", "200"))
	RecordRequest("lambda", "200", 0.42)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("lambda", "200")))
}

func TestRecordModelInvocation(t *testing.T) {
	before := testutil.ToFloat64(ModelInvocationsTotal.WithLabelValues("amazon.titan-text-express-v1", "error"))
	RecordModelInvocation("amazon.titan-text-express-v1", "error", 1.5)
	assert.Equal(t, before+1, testutil.ToFloat64(ModelInvocationsTotal.WithLabelValues("amazon.titan-text-express-v1", "error")))
}
