package entity

type Publisher struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// PublisherInput is the full create/update body for /publisher.
// Email and phone are optional but must be well-formed when present.
type PublisherInput struct {
	Name    string `json:"name" validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
	Email   string `json:"email" validate:"omitempty,simple_email"`
	Phone   string `json:"phone" validate:"omitempty,phone_digits"`
}
