package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
)

const skipIntegrationTests = "SHOP_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

type pingEvent struct {
	Message string `json:"message"`
}

func (e pingEvent) Subject() string           { return "products.ping" }
func (e pingEvent) Payload() ([]byte, error) { return json.Marshal(e) }

// PublisherSuite runs the JetStream publisher against a real NATS server.
type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	natsContainer *tcnats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.natsContainer, err = tcnats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err)
	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err)
}

func (s *PublisherSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
	if s.natsContainer != nil {
		if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
			s.T().Logf("failed to terminate NATS container: %v", err)
		}
	}
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestPublish_StoresMessageInStream() {
	// given
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, "PRODUCTS", "products.>"))
	publisher := NewNatsPublisher(s.js)

	// when
	err := publisher.Publish(s.ctx, pingEvent{Message: "hello"})

	// then
	require.NoError(s.T(), err)
	stream, err := s.js.Stream(s.ctx, "PRODUCTS")
	require.NoError(s.T(), err)
	msg, err := stream.GetLastMsgForSubject(s.ctx, "products.ping")
	require.NoError(s.T(), err)
	var got pingEvent
	require.NoError(s.T(), json.Unmarshal(msg.Data, &got))
	s.Equal("hello", got.Message)
}

func (s *PublisherSuite) TestEnsureStream_IsIdempotent() {
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, "IDEMPOTENT", "idem.>"))
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, "IDEMPOTENT", "idem.>"))
}

func (s *PublisherSuite) TestPublish_NoStreamForSubject() {
	publisher := NewNatsPublisher(s.js)

	err := publisher.Publish(s.ctx, unroutedEvent{})

	s.Error(err)
}

type unroutedEvent struct{}

func (unroutedEvent) Subject() string           { return "nobody.listens" }
func (unroutedEvent) Payload() ([]byte, error) { return []byte("{}"), nil }
