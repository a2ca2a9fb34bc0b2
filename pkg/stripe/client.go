package stripe

import (
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// defines the methods that any payment gateway client must implement.
type Client interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(id string, expand []string) (*stripe.CheckoutSession, error)
}

// stripeClient is the implementation of the Client interface.
type stripeClient struct{}

func NewStripeClient(apiKey string) Client {
	stripe.Key = apiKey

	return &stripeClient{}
}

// CreateCheckoutSession implements Client.
func (s *stripeClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// GetCheckoutSession implements Client.
func (s *stripeClient) GetCheckoutSession(id string, expand []string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}

	for _, field := range expand {
		params.AddExpand(field)
	}

	return session.Get(id, params)
}
