package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeLeads  Exchange = "leadflow.leads"
	ExchangeDigest Exchange = "leadflow.digest"
	ExchangeDLQ    Exchange = "leadflow.dlq"
)

// Queues — имена очередей.
const (
	QueueLeadsEnqueued  Queue = "leads.enqueued"
	QueueLeadsProcessed Queue = "leads.processed"
	QueueDigestReady    Queue = "digest.ready"
	QueueDLQLeads       Queue = "dlq.leads"
)

// Routing keys.
const (
	RoutingKeyEnqueued  RoutingKey = "enqueued"
	RoutingKeyProcessed RoutingKey = "processed"
	RoutingKeyReady     RoutingKey = "ready"
	RoutingKeyDLQLeads  RoutingKey = "leads"
)

func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchanges
		if err := declareExchanges(ch); err != nil {
			return err
		}

		// 2. Создаём queues
		if err := declareQueues(ch); err != nil {
			return err
		}

		// 3. Привязываем queues к exchanges
		if err := bindQueues(ch); err != nil {
			return err
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeLeads, "direct"},
		{ExchangeDigest, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Аргументы для очередей с DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQLeads),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// leads.enqueued — с DLQ (битые wakeup-сообщения уходят в DLQ)
		{QueueLeadsEnqueued, dlqArgs},

		// leads.processed — без DLQ (события для downstream-потребителей)
		{QueueLeadsProcessed, nil},

		// digest.ready — без DLQ
		{QueueDigestReady, nil},

		// dlq.leads — сама DLQ очередь
		{QueueDLQLeads, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueLeadsEnqueued, RoutingKeyEnqueued, ExchangeLeads},
		{QueueLeadsProcessed, RoutingKeyProcessed, ExchangeLeads},
		{QueueDigestReady, RoutingKeyReady, ExchangeDigest},
		{QueueDLQLeads, RoutingKeyDLQLeads, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Leadflow RabbitMQ Topology:

    leadflow.leads (direct)
    ├── leads.enqueued [routing: enqueued]
    │       Consumer: Worker (cycle wakeup)
    │       DLQ: dlq.leads
    └── leads.processed [routing: processed]
            Consumer: downstream outreach sender

    leadflow.digest (direct)
    └── digest.ready [routing: ready]
            Consumer: reporting

    leadflow.dlq (direct)
    └── dlq.leads [routing: leads]
            Manual processing
  `
}
