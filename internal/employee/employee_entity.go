package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(30);uniqueIndex"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	NIC            string    `gorm:"type:varchar(20)"`
	Position       string    `gorm:"type:varchar(60)"`
	Phone          string    `gorm:"type:varchar(20)"`

	BasicSalary decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	BankName          string `gorm:"type:varchar(80)"`
	BankAccountNumber string `gorm:"type:varchar(40)"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Allowances []Allowance `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// Allowance is a recurring monthly earning on top of basic salary
// (fuel allowance, attendance incentive, etc).
type Allowance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"type:varchar(80);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TotalAllowances sums the employee's recurring allowances.
func (e *Employee) TotalAllowances() decimal.Decimal {
	total := decimal.Zero
	for _, a := range e.Allowances {
		total = total.Add(a.Amount)
	}
	return total
}
