package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.School{},
		&model.Classroom{},
		&model.Student{},
	)
}

// SeedSuperAdmin creates a development superAdmin so the API is usable out
// of the box. Production bootstraps through POST /api/auth/super-admin.
func SeedSuperAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Super admin already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:     "superadmin",
		PasswordHash: string(hashedPasswordBytes),
		Role:         model.RoleSuperAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Super admin seeded successfully")
	log.Println("   Username: superadmin")
	log.Println("   Password: admin123")

	return nil
}
