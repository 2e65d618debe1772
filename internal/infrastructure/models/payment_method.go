package models

import "time"

type FiatPaymentMethod struct {
	Idx                      int64  `gorm:"primaryKey;autoIncrement"`
	DisplayName              string `gorm:"type:varchar(100);not null"`
	OracleAddr               string `gorm:"type:varchar(64);not null"`
	NewMakerJobID            string `gorm:"column:new_maker_job_id;type:varchar(64);not null"`
	BuyCryptoOrderJobID      string `gorm:"column:buy_crypto_order_job_id;type:varchar(64);not null"`
	BuyCryptoOrderPayedJobID string `gorm:"column:buy_crypto_order_payed_job_id;type:varchar(64);not null"`
	CreatedAt                time.Time
}

func (FiatPaymentMethod) TableName() string {
	return "fiat_payment_methods"
}
