package models

import "time"

type BuyOrder struct {
	ID                   uint64 `gorm:"primaryKey;autoIncrement"`
	Taker                string `gorm:"type:varchar(64);not null;index"`
	MakerID              uint64 `gorm:"not null;index"`
	Crypto               string `gorm:"type:varchar(64);not null"`
	Fiat                 string `gorm:"type:varchar(10);not null"`
	Amount               string `gorm:"type:decimal(36,18);not null"`
	FiatPaymentMethodIdx int64  `gorm:"not null"`
	Status               string `gorm:"type:varchar(30);not null;index"`
	OracleConfirmedAt    *time.Time
	SettledAt            *time.Time
	CancelledAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (BuyOrder) TableName() string {
	return "buy_orders"
}
