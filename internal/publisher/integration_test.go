//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"video_ingestor/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublish_DeliversIngestEvent() {
	pub, err := NewRabbitMQ(Config{
		URL:        s.amqpURL,
		Exchange:   "video_ingestor_test",
		RoutingKey: "ingests",
		QueueName:  "cms_ingests_test",
	}, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	row := &domain.ManifestRow{
		Line:         1,
		VideoID:      "123",
		VideoURL:     "https://cdn.example.com/a.mp4",
		DeliveryType: "remote",
	}
	s.Require().NoError(pub.Publish(s.ctx, row, true, ""))

	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	deliveries, err := ch.Consume("cms_ingests_test", "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case d := <-deliveries:
		var msg IngestMessage
		s.Require().NoError(json.Unmarshal(d.Body, &msg))
		s.Equal("123", msg.VideoID)
		s.Equal("https://cdn.example.com/a.mp4", msg.SourceURL)
		s.True(msg.Accepted)
		s.Equal("", msg.ErrorCode)
	case <-time.After(10 * time.Second):
		s.Fail("no message delivered")
	}
}
