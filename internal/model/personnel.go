package model

// 人员状态枚举
const (
	EmploymentOfficial    = "official"
	EmploymentContractual = "contractual"

	ProductivityProductive    = "productive"
	ProductivityNonProductive = "non_productive"

	DriverYes = "driver"
	DriverNo  = "non_driver"
)

// Personnel 人员表，对应 personnel
type Personnel struct {
	PersonnelID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"personnel_id"`
	FirstName          string `gorm:"type:varchar(100);not null"                         json:"first_name"`
	LastName           string `gorm:"type:varchar(100);not null"                         json:"last_name"`
	NationalID         string `gorm:"type:varchar(64);not null"                          json:"national_id"`
	EmploymentStatus   string `gorm:"type:varchar(20);not null;default:'official'"       json:"employment_status"`
	ProductivityStatus string `gorm:"type:varchar(20);not null;default:'productive'"     json:"productivity_status"`
	DriverStatus       string `gorm:"type:varchar(20);not null;default:'non_driver'"     json:"driver_status"`
	IsGuest            bool   `gorm:"not null;default:false"                             json:"is_guest"`
	SoftDeleteModel
}

// TableName 指定表名
func (Personnel) TableName() string { return "personnel" }

// FullName 姓名
func (p *Personnel) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
