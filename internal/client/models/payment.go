package models

// PaymentMethod is one of the enumerated payment options the backend accepts.
type PaymentMethod struct {
	ID    string
	Label string
}

var paymentMethods = []PaymentMethod{
	{ID: "cash", Label: "Efectivo"},
	{ID: "card", Label: "Tarjeta"},
	{ID: "transfer", Label: "Transferencia"},
}

// PaymentMethods returns the ordered set of selectable payment methods.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

// PaymentMethodByID looks up a method by its wire id. Unknown ids return
// ok=false; a loaded sale with an unrecognized method simply has no current
// selection.
func PaymentMethodByID(id string) (PaymentMethod, bool) {
	for _, m := range paymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
