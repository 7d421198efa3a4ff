package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	slotCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clinic_scheduler",
			Name:      "slot_cache_hits_total",
			Help:      "Count of slot generation requests served from cache.",
		},
	)

	slotCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clinic_scheduler",
			Name:      "slot_cache_misses_total",
			Help:      "Count of slot generation requests computed cold.",
		},
	)

	slotGenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clinic_scheduler",
			Name:      "slot_generation_duration_seconds",
			Help:      "Duration of cold slot generation calls.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clinic_scheduler",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by source.",
		},
		[]string{"source"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clinic_scheduler",
			Name:      "booking_conflicts_total",
			Help:      "Count of reservation attempts rejected by the conflict guard.",
		},
	)
)

// Register registers collectors (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			slotCacheHits,
			slotCacheMisses,
			slotGenerationDuration,
			bookingCreated,
			bookingConflicts,
		)
	})
}

func IncSlotCacheHit() {
	slotCacheHits.Inc()
}

func IncSlotCacheMiss() {
	slotCacheMisses.Inc()
}

func ObserveSlotGeneration(d time.Duration) {
	slotGenerationDuration.Observe(d.Seconds())
}

func IncBookingCreated(source string) {
	bookingCreated.WithLabelValues(source).Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}
