package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"sodaclub_back_end/internal/models"
)

// WarehousePublisher pousse les mouvements de stock vers la file AMQP
// consommée par l'entrepôt. Optionnel : nil quand AMQP_URL est absent.
type WarehousePublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

type warehouseItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type warehouseMessage struct {
	OrderID string          `json:"order_id"`
	Total   float64         `json:"total"`
	Items   []warehouseItem `json:"items"`
}

func NewWarehousePublisher(url, queue string) (*WarehousePublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Println("✅ Connecté à RabbitMQ, file:", q.Name)
	return &WarehousePublisher{conn: conn, ch: ch, queue: q.Name}, nil
}

// PublishOrder envoie le récapitulatif en fire-and-forget : une erreur ici
// ne remet jamais en cause une commande déjà validée.
func (w *WarehousePublisher) PublishOrder(ctx context.Context, order *models.Order) {
	if w == nil {
		return
	}

	msg := warehouseMessage{
		OrderID: order.ID.String(),
		Total:   order.Total,
	}
	for _, item := range order.Items {
		msg.Items = append(msg.Items, warehouseItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️ Erreur sérialisation message entrepôt: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = w.ch.PublishWithContext(ctx,
		"",
		w.queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("⚠️ Erreur publication commande %s vers l'entrepôt: %v", order.ID, err)
	}
}

func (w *WarehousePublisher) Close() {
	if w == nil {
		return
	}
	w.ch.Close()
	w.conn.Close()
}
