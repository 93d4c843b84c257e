package employee

import "time"

// Employee is the canonical directory record statements are resolved against.
// Name carries the statement-style spelling (all caps, as printed on cards).
type Employee struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeAlias maps a literal name string seen in statement text to a
// directory employee. ExtractedName is globally unique; the row is removed by
// cascade when the employee it references is deleted.
type EmployeeAlias struct {
	ID            int64     `gorm:"primaryKey"`
	ExtractedName string    `gorm:"column:extracted_name;uniqueIndex;not null"`
	EmployeeID    int64     `gorm:"column:employee_id;not null;index"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`

	Employee *Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

func (EmployeeAlias) TableName() string {
	return "employee_aliases"
}
