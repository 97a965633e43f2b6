package entity

// CheckoutSession is a payment session opened at the billing provider.
type CheckoutSession struct {
	ID           string
	ClientSecret string
}

// CheckoutStatusComplete is the provider status of a paid checkout.
const CheckoutStatusComplete = "complete"

// CheckoutResult is what the provider reports about a checkout session.
type CheckoutResult struct {
	Status          string
	CustomerEmail   string
	SubscriptionRef string
}

// CancelStatusCanceled is the provider status of a canceled subscription.
const CancelStatusCanceled = "canceled"
