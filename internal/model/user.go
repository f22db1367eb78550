package model

// User — users table. Rows are provisioned lazily on the first
// authenticated request that needs one; identity itself lives in the
// external provider.
type User struct {
	ID          uint   `gorm:"primaryKey"                          json:"id"`
	FirebaseUID string `gorm:"type:varchar(128);uniqueIndex;not null" json:"firebase_uid"`
	Email       string `gorm:"type:varchar(255);unique;not null"   json:"email"`
	Name        string `gorm:"type:varchar(255);not null"          json:"name"`
	Role        string `gorm:"type:varchar(50);not null;default:'STUDENT'" json:"role"`
	Timestamps
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
