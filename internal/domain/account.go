package domain

import "time"

// Account is the lottery-side view of a participant. Identity itself is owned by
// the external account service; only what the lottery needs is kept here.
type Account struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentCard carries the card details entered at purchase. They are validated and
// handed to the payment gateway but never stored.
type PaymentCard struct {
	Number string
	Expiry string
	CVV    string
}
