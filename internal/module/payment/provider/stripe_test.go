package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func newTestProvider() *StripeProvider {
	return NewStripeProvider(&StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
	}, nil, zap.NewNop())
}

func TestCircuitBreaker(t *testing.T) {
	t.Run("opens after consecutive failures and stops calling out", func(t *testing.T) {
		p := newTestProvider()

		boom := errors.New("boom")
		for i := 0; i < 5; i++ {
			_, err := p.call("test_op", func() (any, error) { return nil, boom })
			require.ErrorIs(t, err, boom)
		}

		called := false
		_, err := p.call("test_op", func() (any, error) {
			called = true
			return nil, nil
		})

		assert.ErrorIs(t, err, ErrBreakerOpen)
		assert.False(t, called)
	})

	t.Run("passes results through when closed", func(t *testing.T) {
		p := newTestProvider()

		result, err := p.call("test_op", func() (any, error) { return "ok", nil })
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&stripe.Error{Code: stripe.ErrorCodeResourceMissing}))
	assert.True(t, IsNotFound(&stripe.Error{HTTPStatusCode: 404}))
	assert.False(t, IsNotFound(&stripe.Error{Code: stripe.ErrorCodeCardDeclined}))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
