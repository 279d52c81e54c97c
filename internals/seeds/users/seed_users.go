package users

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	"kursusku_backend/internals/features/users/users/model"
)

type UserSeed struct {
	UserEmail string  `json:"user_email"`
	UserRole  string  `json:"user_role"`
	UserName  *string `json:"user_name,omitempty"`
	UserBio   *string `json:"user_bio,omitempty"`
}

// SeedUsersFromJSON inserts demo accounts, skipping emails that already exist.
func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading user seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Cannot read %s: %v (skipping user seed)", filePath, err)
		return
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ Cannot decode %s: %v (skipping user seed)", filePath, err)
		return
	}

	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.UserEmail))
		if email == "" {
			continue
		}

		var existing model.UserModel
		if err := db.Where("user_email = ?", email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User '%s' already exists, skipped.", email)
			continue
		}

		role := strings.ToLower(strings.TrimSpace(data.UserRole))
		if !constants.IsAssignableRole(role) {
			role = constants.DefaultRole
		}

		newUser := model.UserModel{
			UserEmail: email,
			UserRole:  role,
			UserName:  data.UserName,
			UserBio:   data.UserBio,
		}
		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("❌ Failed to insert user '%s': %v", email, err)
			continue
		}
		log.Printf("✅ Seeded user '%s' (%s)", email, role)
	}
}
