package model

// swagger:model Module
type Module struct {
	BaseModel
	Name          string  `gorm:"size:255;not null" json:"name"`
	Description   string  `gorm:"type:text" json:"description"`
	LecturerID    uint    `gorm:"index" json:"lecturerId"`
	Lecturer      *User   `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
	Published     bool    `gorm:"default:false" json:"published"`
	Category      string  `gorm:"size:100" json:"category"`
	Difficulty    string  `gorm:"size:50" json:"difficulty"`
	DurationHours int     `gorm:"default:0" json:"durationHours"`
	Price         float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
}

func (Module) TableName() string {
	return "modules"
}
