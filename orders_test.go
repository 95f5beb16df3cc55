package tariffbot

import "testing"

func TestOrderStatusTransitionChart_Allowed(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{
			"pending to awaiting_confirmation",
			PENDING_ORDER,
			AWAITING_CONFIRMATION_ORDER,
			true,
		},
		{
			"pending to paid (callback)",
			PENDING_ORDER,
			PAID_ORDER,
			true,
		},
		{
			"awaiting_confirmation to paid",
			AWAITING_CONFIRMATION_ORDER,
			PAID_ORDER,
			true,
		},
		{
			"awaiting_confirmation to payment_rejected",
			AWAITING_CONFIRMATION_ORDER,
			PAYMENT_REJECTED_ORDER,
			true,
		},
		{
			"payment_rejected to awaiting_confirmation (resubmit)",
			PAYMENT_REJECTED_ORDER,
			AWAITING_CONFIRMATION_ORDER,
			true,
		},
		{
			"pending to payment_rejected",
			PENDING_ORDER,
			PAYMENT_REJECTED_ORDER,
			false,
		},
		{
			"paid is terminal",
			PAID_ORDER,
			AWAITING_CONFIRMATION_ORDER,
			false,
		},
		{
			"payment_rejected to paid without receipt",
			PAYMENT_REJECTED_ORDER,
			PAID_ORDER,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("AllowedTransition(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNewOrderID(t *testing.T) {
	id := NewOrderID()
	if id < 0 || id >= 1_000_000_000 {
		t.Errorf("NewOrderID() = %d, want in [0, 1e9)", id)
	}
}

func TestOrderDraft_Validate(t *testing.T) {
	valid := func() OrderDraft {
		return OrderDraft{
			UserID:          100,
			Username:        "client",
			TariffID:        1,
			TariffName:      "Smart",
			OperatorID:      1,
			OperatorName:    "MTS",
			ConnectionPrice: 1500,
			Mode:            NEW_MODE,
			FullName:        "Иванов Иван Иванович",
			RegionCity:      "Москва",
			PassportPhoto1:  "file-1",
			PassportPhoto2:  "file-2",
		}
	}

	tests := []struct {
		name      string
		mut       func(*OrderDraft)
		wantField string
	}{
		{"valid", func(d *OrderDraft) {}, ""},
		{"no user", func(d *OrderDraft) { d.UserID = 0 }, "user_id"},
		{"zero price", func(d *OrderDraft) { d.ConnectionPrice = 0 }, "connection_price"},
		{"negative price", func(d *OrderDraft) { d.ConnectionPrice = -1 }, "connection_price"},
		{"unknown mode", func(d *OrderDraft) { d.Mode = "unknown" }, "mode"},
		{"transfer without phone", func(d *OrderDraft) { d.Mode = TRANSFER_MODE }, "transfer_phone"},
		{"no full name", func(d *OrderDraft) { d.FullName = "" }, "full_name"},
		{"no first passport photo", func(d *OrderDraft) { d.PassportPhoto1 = "" }, "passport_photo_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mut(&d)
			err := d.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestOrderDraft_Order(t *testing.T) {
	d := OrderDraft{
		UserID:          100,
		Username:        "client",
		TariffID:        2,
		TariffName:      "Smart",
		OperatorID:      1,
		OperatorName:    "MTS",
		ConnectionPrice: 1500,
		Mode:            TRANSFER_MODE,
		TransferPhone:   "9261234567",
		FullName:        "Иванов Иван Иванович",
		RegionCity:      "Москва",
		PassportPhoto1:  "file-1",
		PassportPhoto2:  "file-2",
	}

	o := d.Order(123456789)
	if o.OrderID != 123456789 {
		t.Errorf("OrderID = %d, want 123456789", o.OrderID)
	}
	if o.Status != PENDING_ORDER {
		t.Errorf("Status = %v, want %v", o.Status, PENDING_ORDER)
	}
	if o.Username == nil || *o.Username != "client" {
		t.Errorf("Username = %v, want client", o.Username)
	}
	if o.TransferPhone == nil || *o.TransferPhone != "9261234567" {
		t.Errorf("TransferPhone = %v, want 9261234567", o.TransferPhone)
	}
	if o.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}
