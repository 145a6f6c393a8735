package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// MutationsTotal counts admin write operations by entity, operation and result.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerage_mutations_total",
		Help: "Total number of create, update and delete operations",
	}, []string{"entity", "operation", "result"})

	// UploadsTotal counts media uploads by result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerage_uploads_total",
		Help: "Total number of media uploads",
	}, []string{"result"})

	// NewsletterSendsTotal counts individual newsletter deliveries by result.
	NewsletterSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerage_newsletter_sends_total",
		Help: "Total number of newsletter messages sent",
	}, []string{"result"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerage_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RevalidateSubscribers is the number of connected revalidation websocket clients.
	RevalidateSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brokerage_revalidate_subscribers",
		Help: "Number of websocket clients listening for revalidation events",
	})
)

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// RecordMutation increments MutationsTotal for the outcome of err.
func RecordMutation(entity, operation string, err error) {
	MutationsTotal.WithLabelValues(entity, operation, result(err)).Inc()
}

// RecordUpload increments UploadsTotal for the outcome of err.
func RecordUpload(err error) {
	UploadsTotal.WithLabelValues(result(err)).Inc()
}

// RecordNewsletterSend increments NewsletterSendsTotal for the outcome of err.
func RecordNewsletterSend(err error) {
	NewsletterSendsTotal.WithLabelValues(result(err)).Inc()
}
