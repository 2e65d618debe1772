package models

import "time"

type OracleRequest struct {
	RequestID        string `gorm:"primaryKey;type:varchar(66)"`
	OracleAddr       string `gorm:"type:varchar(64);not null;index"`
	JobID            string `gorm:"type:varchar(64);not null"`
	CallbackSelector string `gorm:"type:varchar(30);not null"`
	SubjectType      string `gorm:"type:varchar(10);not null;index:idx_oracle_requests_subject"`
	SubjectID        uint64 `gorm:"not null;index:idx_oracle_requests_subject"`
	FeeAmount        string `gorm:"type:decimal(36,18);not null"`
	Payload          string `gorm:"type:text"`
	Expired          bool   `gorm:"not null;default:false;index"`
	CreatedAt        time.Time
}

func (OracleRequest) TableName() string {
	return "oracle_requests"
}
