package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит все метрики сервиса
// Методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	// Заказы
	OrdersCreatedTotal  *prometheus.CounterVec
	OrderStatusChanges  *prometheus.CounterVec
	OrderCreateDuration prometheus.Histogram

	// Тикеты
	TicketOperationsTotal *prometheus.CounterVec

	// Outbox
	OutboxDeliveriesTotal *prometheus.CounterVec

	// Внешние API
	UpstreamRequestDuration *prometheus.HistogramVec

	// Входящие interaction webhooks
	InteractionsTotal *prometheus.CounterVec
}

// New регистрирует метрики в reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syndicate_orders_created_total",
				Help: "Количество созданных заказов",
			},
			[]string{"service_type", "ticket"},
		),
		OrderStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syndicate_order_status_changes_total",
				Help: "Количество смен статуса заказа",
			},
			[]string{"status", "source"},
		),
		OrderCreateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "syndicate_order_create_duration_seconds",
				Help:    "Время создания заказа вместе с тикетом",
				Buckets: prometheus.DefBuckets,
			},
		),
		TicketOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syndicate_ticket_operations_total",
				Help: "Операции с тикетами по результату",
			},
			[]string{"operation", "outcome"},
		),
		OutboxDeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syndicate_outbox_deliveries_total",
				Help: "Доставка outbox событий по результату",
			},
			[]string{"topic", "outcome"},
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "syndicate_upstream_request_duration_seconds",
				Help:    "Длительность запросов во внешние API",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"upstream", "operation", "status"},
		),
		InteractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syndicate_interactions_total",
				Help: "Входящие interaction webhooks по результату",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// OrderCreated учитывает созданный заказ
func (m *Metrics) OrderCreated(serviceType string, withTicket bool, took time.Duration) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(serviceType, strconv.FormatBool(withTicket)).Inc()
	m.OrderCreateDuration.Observe(took.Seconds())
}

// StatusChanged учитывает смену статуса; source - http или interaction
func (m *Metrics) StatusChanged(status, source string) {
	if m == nil {
		return
	}
	m.OrderStatusChanges.WithLabelValues(status, source).Inc()
}

// TicketOperation учитывает операцию с тикетом
func (m *Metrics) TicketOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.TicketOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// OutboxDelivery учитывает попытку доставки outbox события
func (m *Metrics) OutboxDelivery(topic string, err error) {
	if m == nil {
		return
	}
	m.OutboxDeliveriesTotal.WithLabelValues(topic, outcome(err)).Inc()
}

// ObserveUpstream учитывает запрос во внешний API; status 0 - сетевая ошибка
func (m *Metrics) ObserveUpstream(upstream, operation string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestDuration.WithLabelValues(upstream, operation, strconv.Itoa(status)).Observe(took.Seconds())
}

// Interaction учитывает входящий webhook
func (m *Metrics) Interaction(kind, result string) {
	if m == nil {
		return
	}
	m.InteractionsTotal.WithLabelValues(kind, result).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
