package tariffbot

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type orderTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *orderTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("orders").
func (v *orderTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *orderTableType) Columns() []string {
	return []string{"id", "order_id", "user_id", "username", "tariff_id", "tariff_name", "operator_id", "operator_name", "monthly_fee", "connection_price", "mode", "transfer_phone", "full_name", "region_city", "passport_photo_1", "passport_photo_2", "status", "payment_receipt", "payment_method_name", "payment_confirmed_at", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *orderTableType) NewStruct() reform.Struct {
	return new(Order)
}

// NewRecord makes a new record for that table.
func (v *orderTableType) NewRecord() reform.Record {
	return new(Order)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *orderTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// OrderTable represents orders view or table in SQL database.
var OrderTable = &orderTableType{
	s: parse.StructInfo{
		Type:    "Order",
		SQLName: "orders",
		Fields: []parse.FieldInfo{
			{Name: "ID", Type: "int64", Column: "id"},
			{Name: "OrderID", Type: "int64", Column: "order_id"},
			{Name: "UserID", Type: "int64", Column: "user_id"},
			{Name: "Username", Type: "*string", Column: "username"},
			{Name: "TariffID", Type: "int64", Column: "tariff_id"},
			{Name: "TariffName", Type: "string", Column: "tariff_name"},
			{Name: "OperatorID", Type: "int64", Column: "operator_id"},
			{Name: "OperatorName", Type: "string", Column: "operator_name"},
			{Name: "MonthlyFee", Type: "*int64", Column: "monthly_fee"},
			{Name: "ConnectionPrice", Type: "int64", Column: "connection_price"},
			{Name: "Mode", Type: "OrderMode", Column: "mode"},
			{Name: "TransferPhone", Type: "*string", Column: "transfer_phone"},
			{Name: "FullName", Type: "string", Column: "full_name"},
			{Name: "RegionCity", Type: "string", Column: "region_city"},
			{Name: "PassportPhoto1", Type: "string", Column: "passport_photo_1"},
			{Name: "PassportPhoto2", Type: "string", Column: "passport_photo_2"},
			{Name: "Status", Type: "OrderStatus", Column: "status"},
			{Name: "PaymentReceipt", Type: "*string", Column: "payment_receipt"},
			{Name: "PaymentMethodName", Type: "*string", Column: "payment_method_name"},
			{Name: "PaymentConfirmedAt", Type: "*time.Time", Column: "payment_confirmed_at"},
			{Name: "CreatedAt", Type: "time.Time", Column: "created_at"},
		},
		PKFieldIndex: 0,
	},
	z: new(Order).Values(),
}

// String returns a string representation of this struct or record.
func (s Order) String() string {
	res := make([]string, 21)
	res[0] = "ID: " + reform.Inspect(s.ID, true)
	res[1] = "OrderID: " + reform.Inspect(s.OrderID, true)
	res[2] = "UserID: " + reform.Inspect(s.UserID, true)
	res[3] = "Username: " + reform.Inspect(s.Username, true)
	res[4] = "TariffID: " + reform.Inspect(s.TariffID, true)
	res[5] = "TariffName: " + reform.Inspect(s.TariffName, true)
	res[6] = "OperatorID: " + reform.Inspect(s.OperatorID, true)
	res[7] = "OperatorName: " + reform.Inspect(s.OperatorName, true)
	res[8] = "MonthlyFee: " + reform.Inspect(s.MonthlyFee, true)
	res[9] = "ConnectionPrice: " + reform.Inspect(s.ConnectionPrice, true)
	res[10] = "Mode: " + reform.Inspect(s.Mode, true)
	res[11] = "TransferPhone: " + reform.Inspect(s.TransferPhone, true)
	res[12] = "FullName: " + reform.Inspect(s.FullName, true)
	res[13] = "RegionCity: " + reform.Inspect(s.RegionCity, true)
	res[14] = "PassportPhoto1: " + reform.Inspect(s.PassportPhoto1, true)
	res[15] = "PassportPhoto2: " + reform.Inspect(s.PassportPhoto2, true)
	res[16] = "Status: " + reform.Inspect(s.Status, true)
	res[17] = "PaymentReceipt: " + reform.Inspect(s.PaymentReceipt, true)
	res[18] = "PaymentMethodName: " + reform.Inspect(s.PaymentMethodName, true)
	res[19] = "PaymentConfirmedAt: " + reform.Inspect(s.PaymentConfirmedAt, true)
	res[20] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *Order) Values() []interface{} {
	return []interface{}{
		s.ID,
		s.OrderID,
		s.UserID,
		s.Username,
		s.TariffID,
		s.TariffName,
		s.OperatorID,
		s.OperatorName,
		s.MonthlyFee,
		s.ConnectionPrice,
		s.Mode,
		s.TransferPhone,
		s.FullName,
		s.RegionCity,
		s.PassportPhoto1,
		s.PassportPhoto2,
		s.Status,
		s.PaymentReceipt,
		s.PaymentMethodName,
		s.PaymentConfirmedAt,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *Order) Pointers() []interface{} {
	return []interface{}{
		&s.ID,
		&s.OrderID,
		&s.UserID,
		&s.Username,
		&s.TariffID,
		&s.TariffName,
		&s.OperatorID,
		&s.OperatorName,
		&s.MonthlyFee,
		&s.ConnectionPrice,
		&s.Mode,
		&s.TransferPhone,
		&s.FullName,
		&s.RegionCity,
		&s.PassportPhoto1,
		&s.PassportPhoto2,
		&s.Status,
		&s.PaymentReceipt,
		&s.PaymentMethodName,
		&s.PaymentConfirmedAt,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *Order) View() reform.View {
	return OrderTable
}

// Table returns Table object for that record.
func (s *Order) Table() reform.Table {
	return OrderTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *Order) PKValue() interface{} {
	return s.ID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *Order) PKPointer() interface{} {
	return &s.ID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *Order) HasPK() bool {
	return s.ID != OrderTable.z[OrderTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *Order) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.ID = int64(i64)
	} else {
		s.ID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = OrderTable
	_ reform.Struct = new(Order)
	_ reform.Table  = OrderTable
	_ reform.Record = new(Order)
	_ fmt.Stringer  = new(Order)
)

func init() {
	parse.AssertUpToDate(&OrderTable.s, new(Order))
}
