// Package metrics exports game counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dimaq12/minesweeper/models"
)

// Collector counts games per preset. It satisfies game.Observer.
type Collector struct {
	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sessions prometheus.Gauge
}

// New registers the game metrics on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "games_started_total",
			Help:      "Games whose timer started, by preset.",
		}, []string{"preset"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "games_finished_total",
			Help:      "Games that ended, by preset and outcome.",
		}, []string{"preset", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "minesweeper",
			Name:      "game_duration_seconds",
			Help:      "Wall-clock length of finished games.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 999},
		}, []string{"preset", "status"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minesweeper",
			Name:      "sessions_active",
			Help:      "Web sessions currently held in memory.",
		}),
	}
	reg.MustRegister(c.started, c.finished, c.duration, c.sessions)
	return c
}

func (c *Collector) GameStarted(p models.Preset) {
	c.started.WithLabelValues(p.Name).Inc()
}

func (c *Collector) GameFinished(p models.Preset, status models.GameStatus, elapsed time.Duration) {
	c.finished.WithLabelValues(p.Name, status.String()).Inc()
	c.duration.WithLabelValues(p.Name, status.String()).Observe(elapsed.Seconds())
}

// SessionOpened and SessionClosed track the server's session table.
func (c *Collector) SessionOpened() { c.sessions.Inc() }
func (c *Collector) SessionClosed() { c.sessions.Dec() }
