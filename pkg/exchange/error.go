package exchange

import "errors"

var (
	ErrDuplicateClOrdID   = errors.New("duplicate ClOrdID")
	ErrUnknownClOrdID     = errors.New("ClOrdID not found")
	ErrUnknownSymbol      = errors.New("symbol not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrReplaceRejected    = errors.New("replace rejected")
)
