// Package catalog каталог операторов, тарифов и способов оплаты.
// Хранится в плоском JSON файле, правится администратором из бота.
// Для ядра заказов каталог - источник цены на момент создания заказа.
package catalog

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

type Operator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tariff struct {
	ID          int64  `json:"id"`
	OperatorID  int64  `json:"operator_id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// MonthlyFee абонплата в рублях, может отсутствовать.
	MonthlyFee *int64 `json:"monthly_fee"`

	// ConnectionPrice стоимость подключения, сумма к оплате по заказу.
	ConnectionPrice int64 `json:"connection_price"`

	IsPublic bool `json:"is_public"`
}

// PaymentMethod банк/карта для ручной оплаты переводом.
type PaymentMethod struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Details  string `json:"details"`
	IsActive bool   `json:"is_active"`
}

var ErrNotFound = errors.New("catalog: not found")

var defaultOperators = []Operator{
	{ID: 1, Name: "MTS"},
	{ID: 2, Name: "Megafon"},
	{ID: 3, Name: "Beeline"},
	{ID: 4, Name: "T2"},
	{ID: 5, Name: "Yota"},
}

type store struct {
	Operators           []Operator      `json:"operators"`
	Tariffs             []Tariff        `json:"tariffs"`
	PaymentMethods      []PaymentMethod `json:"payment_methods"`
	NextOperatorID      int64           `json:"next_operator_id"`
	NextTariffID        int64           `json:"next_tariff_id"`
	NextPaymentMethodID int64           `json:"next_payment_method_id"`
}

type Catalog struct {
	path string

	mu  sync.Mutex
	dat store
}

// Open читает каталог из файла, при первом запуске создает его
// с операторами по умолчанию.
func Open(path string) (*Catalog, error) {
	c := &Catalog{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		c.dat = store{
			Operators:           append([]Operator{}, defaultOperators...),
			NextOperatorID:      int64(len(defaultOperators)) + 1,
			NextTariffID:        1,
			NextPaymentMethodID: 1,
		}
		if err := c.save(); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Failed read catalog file")
	}

	if err := json.Unmarshal(raw, &c.dat); err != nil {
		return nil, errors.Wrap(err, "Failed unmarshal catalog file")
	}
	c.normalize()
	return c, nil
}

// normalize добивает отсутствующие секции старых файлов.
func (c *Catalog) normalize() {
	if len(c.dat.Operators) == 0 {
		c.dat.Operators = append([]Operator{}, defaultOperators...)
	}
	if c.dat.NextOperatorID == 0 {
		c.dat.NextOperatorID = maxOperatorID(c.dat.Operators) + 1
	}
	if c.dat.NextTariffID == 0 {
		c.dat.NextTariffID = 1
		for _, t := range c.dat.Tariffs {
			if t.ID >= c.dat.NextTariffID {
				c.dat.NextTariffID = t.ID + 1
			}
		}
	}
	if c.dat.NextPaymentMethodID == 0 {
		c.dat.NextPaymentMethodID = 1
		for _, m := range c.dat.PaymentMethods {
			if m.ID >= c.dat.NextPaymentMethodID {
				c.dat.NextPaymentMethodID = m.ID + 1
			}
		}
	}
}

func maxOperatorID(ops []Operator) int64 {
	var max int64
	for _, op := range ops {
		if op.ID > max {
			max = op.ID
		}
	}
	return max
}

func (c *Catalog) save() error {
	raw, err := json.MarshalIndent(&c.dat, "", "  ")
	if err != nil {
		return errors.Wrap(err, "Failed marshal catalog")
	}
	if err := os.WriteFile(c.path, raw, 0644); err != nil {
		return errors.Wrap(err, "Failed write catalog file")
	}
	return nil
}

func (c *Catalog) Operators() []Operator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Operator{}, c.dat.Operators...)
}

func (c *Catalog) OperatorByID(id int64) (Operator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, op := range c.dat.Operators {
		if op.ID == id {
			return op, nil
		}
	}
	return Operator{}, ErrNotFound
}

func (c *Catalog) AddOperator(name string) (Operator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	op := Operator{ID: c.dat.NextOperatorID, Name: name}
	c.dat.NextOperatorID++
	c.dat.Operators = append(c.dat.Operators, op)
	return op, c.save()
}

// DeleteOperator удаляет оператора вместе с его тарифами.
func (c *Catalog) DeleteOperator(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.dat.Operators {
		if c.dat.Operators[i].ID != id {
			continue
		}
		c.dat.Operators = append(c.dat.Operators[:i], c.dat.Operators[i+1:]...)
		tariffs := c.dat.Tariffs[:0]
		for _, t := range c.dat.Tariffs {
			if t.OperatorID != id {
				tariffs = append(tariffs, t)
			}
		}
		c.dat.Tariffs = tariffs
		return c.save()
	}
	return ErrNotFound
}

// TariffsByOperator тарифы оператора. publicOnly скрывает черновики
// от клиентов, администратор видит все.
func (c *Catalog) TariffsByOperator(operatorID int64, publicOnly bool) []Tariff {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := []Tariff{}
	for _, t := range c.dat.Tariffs {
		if t.OperatorID != operatorID {
			continue
		}
		if publicOnly && !t.IsPublic {
			continue
		}
		list = append(list, t)
	}
	return list
}

func (c *Catalog) TariffByID(id int64) (Tariff, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.dat.Tariffs {
		if t.ID == id {
			return t, nil
		}
	}
	return Tariff{}, ErrNotFound
}

func (c *Catalog) AddTariff(t Tariff) (Tariff, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t.ID = c.dat.NextTariffID
	c.dat.NextTariffID++
	c.dat.Tariffs = append(c.dat.Tariffs, t)
	return t, c.save()
}

func (c *Catalog) UpdateTariff(t Tariff) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.dat.Tariffs {
		if c.dat.Tariffs[i].ID == t.ID {
			c.dat.Tariffs[i] = t
			return c.save()
		}
	}
	return ErrNotFound
}

func (c *Catalog) DeleteTariff(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.dat.Tariffs {
		if c.dat.Tariffs[i].ID == id {
			c.dat.Tariffs = append(c.dat.Tariffs[:i], c.dat.Tariffs[i+1:]...)
			return c.save()
		}
	}
	return ErrNotFound
}

func (c *Catalog) PaymentMethods() []PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]PaymentMethod{}, c.dat.PaymentMethods...)
}

// ActivePaymentMethods способы оплаты, доступные клиенту.
func (c *Catalog) ActivePaymentMethods() []PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := []PaymentMethod{}
	for _, m := range c.dat.PaymentMethods {
		if m.IsActive {
			list = append(list, m)
		}
	}
	return list
}

func (c *Catalog) PaymentMethodByID(id int64) (PaymentMethod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.dat.PaymentMethods {
		if m.ID == id {
			return m, nil
		}
	}
	return PaymentMethod{}, ErrNotFound
}

func (c *Catalog) AddPaymentMethod(name, details string) (PaymentMethod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := PaymentMethod{
		ID:       c.dat.NextPaymentMethodID,
		Name:     name,
		Details:  details,
		IsActive: true,
	}
	c.dat.NextPaymentMethodID++
	c.dat.PaymentMethods = append(c.dat.PaymentMethods, m)
	return m, c.save()
}

func (c *Catalog) SetPaymentMethodActive(id int64, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.dat.PaymentMethods {
		if c.dat.PaymentMethods[i].ID == id {
			c.dat.PaymentMethods[i].IsActive = active
			return c.save()
		}
	}
	return ErrNotFound
}

func (c *Catalog) DeletePaymentMethod(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.dat.PaymentMethods {
		if c.dat.PaymentMethods[i].ID == id {
			c.dat.PaymentMethods = append(c.dat.PaymentMethods[:i], c.dat.PaymentMethods[i+1:]...)
			return c.save()
		}
	}
	return ErrNotFound
}
