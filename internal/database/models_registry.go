package database

import "brokerage/internal/models"

// PersistentModels returns the schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Property{},
		&models.Lead{},
		&models.BlogPost{},
		&models.NewsletterSubscriber{},
		&models.ContactMessage{},
		&models.AdminUser{},
	}
}
