package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	for _, endpoint := range []string{"localhost:9000", "http://localhost:9000", "https://s3.amazonaws.com"} {
		client, err := NewClient(Config{Endpoint: endpoint, AccessKey: "key", SecretKey: "secret", Region: "us-east-1"})
		require.NoError(t, err, endpoint)
		assert.NotNil(t, client)
	}
}

func TestEndpointHost(t *testing.T) {
	assert.Equal(t, "localhost:9000", endpointHost("http://localhost:9000"))
	assert.Equal(t, "s3.amazonaws.com", endpointHost("https://s3.amazonaws.com"))
	assert.Equal(t, "minio:9000", endpointHost("minio:9000"))
}

func TestConfig_Timeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, Config{}.Timeout())
	assert.Equal(t, 5*time.Second, Config{TimeoutSeconds: 5}.Timeout())

	tr := newTransport(5 * time.Second)
	assert.Equal(t, 5*time.Second, tr.ResponseHeaderTimeout)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
}
