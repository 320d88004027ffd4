package purchase

import "errors"

var (
	ErrUnknownIntent      = errors.New("no purchase intent for correlation id")
	ErrGatewayRejected    = errors.New("payment gateway rejected the payment")
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")
	ErrUnknownPrice       = errors.New("no price for category and credit type")
)
