package kafka

import "fmt"

// Config подключение к Kafka для публикации интеграционных событий.
// Разбирается caarlos0/env как вложенная структура конфигурации приложения.
type Config struct {
	// Enabled включает публикацию; при false события outbox только логируются
	Enabled bool `env:"KAFKA_ENABLED" envDefault:"false"`
	// Brokers список брокеров через запятую: локально localhost:19092, в docker kafka:9092
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// OrderEventsTopic топик для order.created и order.status_changed
	OrderEventsTopic string `env:"KAFKA_ORDER_EVENTS_TOPIC" envDefault:"syndicate.order-events"`
}

// DefaultBrokers брокеры по умолчанию для окружения APP_ENV
func DefaultBrokers(appEnv string) []string {
	if appEnv == "docker" {
		return []string{"kafka:9092"}
	}
	return []string{"localhost:19092"}
}

// Validate проверяет конфигурацию, только если публикация включена
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.OrderEventsTopic == "" {
		return fmt.Errorf("KAFKA_ORDER_EVENTS_TOPIC is required when KAFKA_ENABLED=true")
	}
	return nil
}
