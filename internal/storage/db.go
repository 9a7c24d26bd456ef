package storage

import (
	"simplecrm/internal/apperr"
	"simplecrm/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore is the gorm-backed Store implementation. It is the only
// component that touches the database.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// contacts table exists. Idempotent; safe to call on every startup.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, &apperr.StorageError{Op: "open database", Err: err}
	}

	// Auto Migrate
	if err := db.AutoMigrate(&models.Contact{}); err != nil {
		return nil, &apperr.StorageError{Op: "migrate contacts table", Err: err}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(filter string) ([]models.Contact, error) {
	q := s.db.Model(&models.Contact{})
	if filter != "" {
		like := "%" + filter + "%"
		q = q.Where(
			"name LIKE ? OR email LIKE ? OR phone LIKE ? OR company LIKE ? OR tags LIKE ?",
			like, like, like, like, like,
		)
	}

	var contacts []models.Contact
	// id breaks ties between rows created within the same timestamp tick.
	if err := q.Order("created_at DESC, id DESC").Find(&contacts).Error; err != nil {
		return nil, &apperr.StorageError{Op: "list contacts", Err: err}
	}
	return contacts, nil
}

func (s *SQLiteStore) Add(fields models.ContactFields) (uint, error) {
	fields, err := validateAndNormalize(fields)
	if err != nil {
		return 0, err
	}

	contact := models.Contact{
		Name:    fields.Name,
		Email:   fields.Email,
		Phone:   fields.Phone,
		Company: fields.Company,
		Tags:    fields.Tags,
		Notes:   fields.Notes,
	}
	if err := s.db.Create(&contact).Error; err != nil {
		return 0, &apperr.StorageError{Op: "insert contact", Err: err}
	}
	return contact.ID, nil
}

func (s *SQLiteStore) Update(id uint, fields models.ContactFields) error {
	fields, err := validateAndNormalize(fields)
	if err != nil {
		return err
	}

	// A map keeps zero values in the UPDATE: clearing a field must stick.
	res := s.db.Model(&models.Contact{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":    fields.Name,
		"email":   fields.Email,
		"phone":   fields.Phone,
		"company": fields.Company,
		"tags":    fields.Tags,
		"notes":   fields.Notes,
	})
	if res.Error != nil {
		return &apperr.StorageError{Op: "update contact", Err: res.Error}
	}
	// Zero rows affected means the id does not exist; documented no-op.
	return nil
}

func (s *SQLiteStore) Delete(id uint) error {
	if err := s.db.Delete(&models.Contact{}, id).Error; err != nil {
		return &apperr.StorageError{Op: "delete contact", Err: err}
	}
	return nil
}

func (s *SQLiteStore) DeleteMany(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.Where("id IN ?", ids).Delete(&models.Contact{})
	if res.Error != nil {
		return 0, &apperr.StorageError{Op: "delete contacts", Err: res.Error}
	}
	return res.RowsAffected, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
