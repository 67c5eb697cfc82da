package models

// CartActionType is the kind of cart operation suggested to the frontend
type CartActionType string

const (
	CartActionAdd CartActionType = "add"
)

// CartAction is a suggested add-to-cart operation. It is never persisted.
type CartAction struct {
	Type    CartActionType `json:"type"`
	Product Product        `json:"product"`
}

func NewAddToCart(p Product) CartAction {
	return CartAction{
		Type:    CartActionAdd,
		Product: p,
	}
}
