package main

import (
	"log"
	"os"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
)

// seedServiceCategories inserts the service catalog on first boot.
// Existing rows are left alone so renames done in the admin panel
// survive restarts.
func seedServiceCategories() error {
	db := database.GetDB()

	categories := []models.ServiceCategory{
		{Name: "Plumbing", Description: "Leak repair, taps, pipes and fittings", Icon: "water", IsActive: true},
		{Name: "Electrical", Description: "Wiring, sockets, fixtures and panel work", Icon: "flash", IsActive: true},
		{Name: "Cleaning", Description: "Home and office deep cleaning", Icon: "sparkles", IsActive: true},
		{Name: "Carpentry", Description: "Furniture repair, doors and woodwork", Icon: "hammer", IsActive: true},
		{Name: "Painting", Description: "Interior and exterior painting", Icon: "brush", IsActive: true},
		{Name: "Appliance Repair", Description: "Washing machines, fridges, ACs and ovens", Icon: "build", IsActive: true},
		{Name: "Pest Control", Description: "Insect and rodent treatment", Icon: "bug", IsActive: true},
		{Name: "Gardening", Description: "Lawn care, pruning and landscaping", Icon: "leaf", IsActive: true},
	}

	for _, category := range categories {
		var existing models.ServiceCategory
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		log.Printf("🌱 Seeded category: %s", category.Name)
	}

	return nil
}

// seedAdminUser bootstraps the first admin account from environment
// variables. Skipped when the variables are unset or the account
// already exists.
func seedAdminUser() error {
	phone := os.Getenv("ADMIN_PHONE")
	password := os.Getenv("ADMIN_PASSWORD")
	if phone == "" || password == "" {
		log.Println("⚠️ ADMIN_PHONE/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	db := database.GetDB()

	var existing models.User
	if err := db.Where("phone_number = ? AND role = ?", phone, models.RoleAdmin).First(&existing).Error; err == nil {
		return nil
	}

	jwtService := services.NewJWTService(db)
	hash, err := jwtService.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		FullName:     "Administrator",
		PhoneNumber:  phone,
		Role:         models.RoleAdmin,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded admin account %d", admin.ID)
	return nil
}
