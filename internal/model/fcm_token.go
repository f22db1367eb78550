package model

// FCMToken — fcm_tokens table. A device push endpoint owned by a user;
// identity is (user_id, token), re-registering updates the device type.
type FCMToken struct {
	ID         uint   `gorm:"primaryKey"                                     json:"id"`
	UserID     uint   `gorm:"not null;uniqueIndex:uq_fcm_tokens_user_token"  json:"user_id"`
	Token      string `gorm:"type:varchar(512);not null;uniqueIndex:uq_fcm_tokens_user_token" json:"token"`
	DeviceType string `gorm:"type:varchar(50);not null;default:'android'"    json:"device_type"` // android, ios, web
	Timestamps
}

// TableName sets the table name.
func (FCMToken) TableName() string { return "fcm_tokens" }
