package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bai-backend/config"
	"bai-backend/models"
)

// UploadReceiptHandler stores a proof-of-payment image in the bucket and
// attaches it to the transaction.
func UploadReceiptHandler(c *gin.Context) {
	if config.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Receipt storage is not configured"})
		return
	}

	tx, ok := loadTransactionForWrite(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file field is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
		return
	}
	defer src.Close()

	key := fmt.Sprintf("receipts/%d/%s%s", tx.ID, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	writer := config.Storage.Bucket(config.Bucket).Object(key).NewWriter(c.Request.Context())
	writer.ContentType = fileHeader.Header.Get("Content-Type")
	if _, err := io.Copy(writer, src); err != nil {
		writer.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store the file"})
		return
	}
	if err := writer.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store the file"})
		return
	}

	receipt := models.Receipt{
		TransactionID: tx.ID,
		Key:           key,
		URL:           fmt.Sprintf("https://storage.googleapis.com/%s/%s", config.Bucket, key),
		MimeType:      writer.ContentType,
	}
	if err := config.DB.Create(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save the receipt record"})
		return
	}

	// The transaction is now backed by a bill.
	if !tx.HasBill {
		config.DB.Model(tx).Update("has_bill", true)
	}

	c.JSON(http.StatusCreated, receipt)
}

// ListReceiptsHandler returns the receipts attached to a transaction.
func ListReceiptsHandler(c *gin.Context) {
	var tx models.Transaction
	if err := config.DB.First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	budget, ok := budgetOfLink(tx.IncomeID, tx.ExpenseID)
	if !ok || !canAccessOrganization(c, budget.OrganizationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}

	var receipts []models.Receipt
	if err := config.DB.Where("transaction_id = ?", tx.ID).Order("id asc").Find(&receipts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch receipts"})
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// DeleteReceiptHandler removes a receipt record and its stored object.
func DeleteReceiptHandler(c *gin.Context) {
	tx, ok := loadTransactionForWrite(c)
	if !ok {
		return
	}

	var receipt models.Receipt
	if err := config.DB.Where("transaction_id = ?", tx.ID).First(&receipt, c.Param("receiptId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		return
	}

	if config.Storage != nil {
		if err := config.Storage.Bucket(config.Bucket).Object(receipt.Key).Delete(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete the stored file"})
			return
		}
	}
	if err := config.DB.Delete(&receipt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete the receipt record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted"})
}
