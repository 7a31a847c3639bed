package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"inventro-backend/models"

	"github.com/shopspring/decimal"
)

// FormValue строковое значение поля формы.
// Из JSON принимает как строки, так и числа.
type FormValue string

// UnmarshalJSON принимает "12", 12 и null
func (v *FormValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(raw)
	return nil
}

// IntOr возвращает целое значение поля или def, если поле пустое
func (v FormValue) IntOr(field string, def int) (int, error) {
	raw := strings.TrimSpace(string(v))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationError(field, "Must be a whole number")
	}
	return n, nil
}

// ItemForm сырые поля формы товара
type ItemForm struct {
	Name         string    `json:"name" form:"name"`
	SKU          string    `json:"sku" form:"sku"`
	Category     string    `json:"category" form:"category"`
	CategoryID   FormValue `json:"category_id" form:"category_id"`
	InStock      FormValue `json:"in_stock" form:"in_stock"`
	TotalAmount  FormValue `json:"total_amount" form:"total_amount"`
	Cost         FormValue `json:"cost" form:"cost"`
	ReorderLevel FormValue `json:"reorder_level" form:"reorder_level"`
	Location     string    `json:"location" form:"location"`
	Description  string    `json:"description" form:"description"`
}

// ItemInput проверенные данные для создания или изменения товара
type ItemInput struct {
	Name         string
	SKU          string
	Category     string
	CategoryID   uint
	InStock      int
	TotalAmount  int
	Cost         decimal.Decimal
	ReorderLevel int
	Location     string
	Description  string
}

// ParseItemForm проверяет форму товара.
// Название, SKU и категория обязательны. Пустые числовые поля равны нулю.
// Некорректные числа дают ValidationError, а в мягком режиме превращаются в ноль.
func ParseItemForm(form ItemForm, lenient bool) (*ItemInput, error) {
	fields := make(map[string]string)

	input := &ItemInput{
		Name:        strings.TrimSpace(form.Name),
		SKU:         strings.TrimSpace(form.SKU),
		Category:    strings.TrimSpace(form.Category),
		Location:    strings.TrimSpace(form.Location),
		Description: strings.TrimSpace(form.Description),
	}

	if input.Name == "" {
		fields["name"] = "This field is required"
	}
	if input.SKU == "" {
		fields["sku"] = "This field is required"
	}

	categoryID := parseInt(fields, "category_id", form.CategoryID, lenient)
	if categoryID < 0 {
		fields["category_id"] = "Must not be negative"
	}
	input.CategoryID = uint(max(categoryID, 0))
	if input.CategoryID == 0 && input.Category == "" {
		fields["category"] = "This field is required"
	}

	input.InStock = parseInt(fields, "in_stock", form.InStock, lenient)
	if input.InStock < 0 {
		fields["in_stock"] = "Must not be negative"
	}

	input.TotalAmount = parseInt(fields, "total_amount", form.TotalAmount, lenient)
	if input.TotalAmount < 0 {
		fields["total_amount"] = "Must not be negative"
	}

	input.ReorderLevel = parseInt(fields, "reorder_level", form.ReorderLevel, lenient)
	if input.ReorderLevel < 0 {
		fields["reorder_level"] = "Must not be negative"
	}
	if input.ReorderLevel == 0 {
		input.ReorderLevel = models.DefaultReorderLevel
	}

	input.Cost = parseDecimal(fields, "cost", form.Cost, lenient)
	if input.Cost.IsNegative() {
		fields["cost"] = "Must not be negative"
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return input, nil
}

func parseInt(fields map[string]string, name string, value FormValue, lenient bool) int {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if !lenient {
			fields[name] = "Must be a whole number"
		}
		return 0
	}
	return n
}

func parseDecimal(fields map[string]string, name string, value FormValue, lenient bool) decimal.Decimal {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		if !lenient {
			fields[name] = "Must be a number"
		}
		return decimal.Zero
	}
	return d.Round(2)
}
