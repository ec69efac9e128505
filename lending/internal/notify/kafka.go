package notify

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/model"
)

type kafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafka(producer sarama.SyncProducer, topic string, log *zap.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		topic:    topic,
		log:      log.Named("kafka"),
	}
}

// Notify keys messages by patron so one patron's notices stay ordered.
func (k *kafkaNotifier) Notify(_ context.Context, patronExternalID string, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(patronExternalID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(n.Kind)},
			{Key: []byte("id"), Value: []byte(n.ID)},
		},
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return err
	}
	k.log.Debug("sent", zap.String("id", n.ID), zap.Int32("partition", partition), zap.Int64("offset", offset))
	return nil
}
