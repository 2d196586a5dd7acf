package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame pipeline metrics
var (
	// FramesTotal tracks processed frames by outcome (classified, no_face)
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facepulse_frames_total",
			Help: "Processed frames by outcome",
		},
		[]string{"outcome"},
	)

	// ClassificationsTotal tracks raw per-frame labels by emotion
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facepulse_classifications_total",
			Help: "Raw per-frame classifications by emotion",
		},
		[]string{"emotion"},
	)

	// EmotionChangesTotal tracks display-label changes pushed to overlays
	EmotionChangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "facepulse_emotion_changes_total",
			Help: "Debounced display-label changes broadcast to overlays",
		},
	)

	// ClassifyDuration tracks classifier latency in seconds
	ClassifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "facepulse_classify_duration_seconds",
			Help:    "Blend-shape classification duration in seconds",
			Buckets: []float64{.000001, .00001, .0001, .001, .01},
		},
	)
)

// Session and overlay metrics
var (
	// ActiveSessions tracks current tracking sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facepulse_active_sessions",
			Help: "Number of active face-tracking sessions",
		},
	)

	// SessionsPrunedTotal tracks idle sessions removed by the engine tick
	SessionsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "facepulse_sessions_pruned_total",
			Help: "Tracking sessions removed after exceeding the idle timeout",
		},
	)

	// OverlayClients tracks connected overlay WebSocket clients
	OverlayClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facepulse_overlay_clients",
			Help: "Connected overlay WebSocket clients across all sessions",
		},
	)

	// OverlayClientsRejected tracks clients rejected by connection limits
	OverlayClientsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facepulse_overlay_clients_rejected_total",
			Help: "Overlay clients rejected by connection limits",
		},
		[]string{"reason"},
	)
)
