package models

import "gorm.io/gorm"

// Receipt is an uploaded proof-of-payment image attached to a transaction.
// Key is the object key in the bucket; URL is the public download URL.
type Receipt struct {
	gorm.Model
	TransactionID uint   `json:"transactionId" gorm:"not null;index"`
	Key           string `json:"key" gorm:"not null"`
	URL           string `json:"url" gorm:"not null"`
	MimeType      string `json:"mimeType"`
}
