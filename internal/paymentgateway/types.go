package paymentgateway

// CheckoutMetadata передаётся шлюзу и возвращается в уведомлениях об оплате.
type CheckoutMetadata struct {
	PurchaseID int64  `json:"purchaseId"`
	UserEmail  string `json:"userEmail"`
}

// CheckoutRequest запрос на создание сессии оплаты.
type CheckoutRequest struct {
	Origin             string           `json:"origin"`
	Amount             float64          `json:"amount"`
	ProductName        string           `json:"productName"`
	ProductDescription string           `json:"productDescription"`
	ProductImage       string           `json:"productImage"`
	SuccessURL         string           `json:"successUrl"`
	CancelURL          string           `json:"cancelUrl"`
	Metadata           CheckoutMetadata `json:"metadata"`
}

// CheckoutResponse ответ шлюза: адрес страницы оплаты.
type CheckoutResponse struct {
	URL string `json:"url"`
}
