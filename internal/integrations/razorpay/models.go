package razorpay

// Order is the gateway's order object.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment is the gateway's payment object. Status "captured" means funds
// are secured.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Method   string `json:"method"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`

	// Raw is the response body as received, kept for dispute resolution.
	Raw []byte `json:"-"`
}

// IsCaptured reports whether the payment's funds are secured.
func (p *Payment) IsCaptured() bool {
	return p.Captured || p.Status == "captured"
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
