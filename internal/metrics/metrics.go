// Package metrics счётчики Prometheus для ключевых сценариев сайта.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты операций для меток.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics набор счётчиков приложения. Методы безопасны для nil.
type Metrics struct {
	registry  *prometheus.Registry
	logins    *prometheus.CounterVec
	purchases *prometheus.CounterVec
	rsvps     *prometheus.CounterVec
	votes     *prometheus.CounterVec
	chat      prometheus.Gauge
}

// New создаёт счётчики в собственном реестре вместе со стандартными метриками процесса.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeehouse",
			Name:      "logins_total",
			Help:      "Попытки входа по результату.",
		}, []string{"result"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeehouse",
			Name:      "purchases_total",
			Help:      "Покупки мерча по этапу (initiated, confirmed) и результату.",
		}, []string{"stage", "result"}),
		rsvps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeehouse",
			Name:      "rsvps_total",
			Help:      "Запросы на участие в событиях по итоговому состоянию.",
		}, []string{"state"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeehouse",
			Name:      "live_votes_total",
			Help:      "Голоса за песни прямого эфира.",
		}, []string{"song"}),
		chat: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coffeehouse",
			Name:      "live_connections",
			Help:      "Открытые WebSocket-подключения к эфиру.",
		}),
	}
	reg.MustRegister(
		m.logins, m.purchases, m.rsvps, m.votes, m.chat,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Login учитывает попытку входа.
func (m *Metrics) Login(err error) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result(err)).Inc()
}

// Purchase учитывает этап покупки.
func (m *Metrics) Purchase(stage string, err error) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(stage, result(err)).Inc()
}

// Rsvp учитывает итог запроса на участие.
func (m *Metrics) Rsvp(state string) {
	if m == nil {
		return
	}
	m.rsvps.WithLabelValues(state).Inc()
}

// Vote учитывает голос за песню.
func (m *Metrics) Vote(songID string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(songID).Inc()
}

// LiveConnected изменяет число открытых подключений на delta.
func (m *Metrics) LiveConnected(delta float64) {
	if m == nil {
		return
	}
	m.chat.Add(delta)
}
