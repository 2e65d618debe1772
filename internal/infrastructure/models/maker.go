package models

import "time"

type Maker struct {
	ID                   uint64 `gorm:"primaryKey;autoIncrement"`
	MakerAddr            string `gorm:"type:varchar(64);not null;index"`
	FiatPaymentMethodIdx int64  `gorm:"not null;index"`
	Crypto               string `gorm:"type:varchar(64);not null;index"`
	Fiat                 string `gorm:"type:varchar(10);not null;index"`
	PaymentDestination   string `gorm:"type:varchar(255);not null"`
	APICredsHash         string `gorm:"column:api_creds_hash;type:varchar(255);not null"`
	Active               bool   `gorm:"not null;default:false;index"`
	ActivatedAt          *time.Time
	CreatedAt            time.Time
}

func (Maker) TableName() string {
	return "makers"
}
