package tariffbot

import "time"

// OrderDraft заявка, заполняемая по шагам диалога.
// Накапливается последовательно одним пользователем, передается
// в CreateOrder только целиком.
type OrderDraft struct {
	UserID   int64
	Username string

	TariffID     int64
	TariffName   string
	OperatorID   int64
	OperatorName string
	MonthlyFee   *int64

	ConnectionPrice int64

	Mode          OrderMode
	TransferPhone string

	FullName       string
	RegionCity     string
	PassportPhoto1 string
	PassportPhoto2 string
}

// Validate проверяет заполненность заявки перед созданием заказа.
func (d *OrderDraft) Validate() error {
	switch {
	case d.UserID == 0:
		return &ValidationError{Field: "user_id"}
	case d.TariffID == 0:
		return &ValidationError{Field: "tariff_id"}
	case d.ConnectionPrice <= 0:
		return &ValidationError{Field: "connection_price"}
	case d.Mode != TRANSFER_MODE && d.Mode != NEW_MODE:
		return &ValidationError{Field: "mode"}
	case d.Mode == TRANSFER_MODE && d.TransferPhone == "":
		return &ValidationError{Field: "transfer_phone"}
	case d.FullName == "":
		return &ValidationError{Field: "full_name"}
	case d.RegionCity == "":
		return &ValidationError{Field: "region_city"}
	case d.PassportPhoto1 == "":
		return &ValidationError{Field: "passport_photo_1"}
	case d.PassportPhoto2 == "":
		return &ValidationError{Field: "passport_photo_2"}
	}
	return nil
}

// Order собирает строку заказа под выданный номер.
func (d *OrderDraft) Order(orderID int64) *Order {
	o := &Order{
		OrderID:         orderID,
		UserID:          d.UserID,
		TariffID:        d.TariffID,
		TariffName:      d.TariffName,
		OperatorID:      d.OperatorID,
		OperatorName:    d.OperatorName,
		MonthlyFee:      d.MonthlyFee,
		ConnectionPrice: d.ConnectionPrice,
		Mode:            d.Mode,
		FullName:        d.FullName,
		RegionCity:      d.RegionCity,
		PassportPhoto1:  d.PassportPhoto1,
		PassportPhoto2:  d.PassportPhoto2,
		Status:          PENDING_ORDER,
		CreatedAt:       time.Now(),
	}
	if d.Username != "" {
		username := d.Username
		o.Username = &username
	}
	if d.TransferPhone != "" {
		phone := d.TransferPhone
		o.TransferPhone = &phone
	}
	return o
}
