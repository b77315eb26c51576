package seed

import (
	"time"
	"vehiclecare/config"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password123"

func intPtr(i int) *int {
	return &i
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := []User{
		{
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			FirstName:    "Admin",
			LastName:     "User",
			IsAdmin:      true,
			IsActive:     true,
		},
		{
			Email:        "driver@example.com",
			PasswordHash: string(hash),
			FirstName:    "Test",
			LastName:     "Driver",
			IsActive:     true,
		},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "email = ?", users[i].Email).Error; err == nil {
			log.Info("User already exists", "email", users[i].Email)
			users[i] = existing
			continue
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "email", users[i].Email)
		}
		if err := db.Create(DefaultUserSettings(users[i].ID)).Error; err != nil {
			return log.Err("failed to create user settings", err, "email", users[i].Email)
		}
	}

	return seedVehicle(db, users[1], log)
}

func seedVehicle(db *gorm.DB, owner User, log logger.Logger) error {
	var count int64
	if err := db.Model(&Vehicle{}).Where("owner_id = ?", owner.ID).Count(&count).Error; err != nil {
		return log.Err("failed to count vehicles", err)
	}
	if count > 0 {
		log.Info("Vehicles already seeded", "ownerID", owner.ID)
		return nil
	}

	now := time.Now()
	vehicle := Vehicle{
		OwnerID:      owner.ID,
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2019,
		LicensePlate: "ABC1234",
		Type:         "sedan",
		Color:        "silver",
		Mileage:      48000,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vehicle).Error; err != nil {
			return log.Err("failed to create vehicle", err)
		}

		readings := []MileageRecord{
			{VehicleID: vehicle.ID, Mileage: 45000, Date: now.AddDate(0, -2, 0)},
			{VehicleID: vehicle.ID, Mileage: 48000, Date: now},
		}
		if err := tx.Create(&readings).Error; err != nil {
			return log.Err("failed to create mileage records", err)
		}

		dueDate := now.AddDate(0, 0, 5)
		reminders := []Reminder{
			{
				VehicleID:       vehicle.ID,
				Description:     "Oil change",
				Type:            ReminderTypeHybrid,
				DueDate:         &dueDate,
				DueMileage:      intPtr(50000),
				IntervalDays:    intPtr(180),
				IntervalMileage: intPtr(10000),
				Recurring:       true,
			},
			{
				VehicleID:   vehicle.ID,
				Description: "Tire rotation",
				Type:        ReminderTypeMileageBased,
				DueMileage:  intPtr(48500),
			},
		}
		if err := tx.Create(&reminders).Error; err != nil {
			return log.Err("failed to create reminders", err)
		}

		log.Info("Seeded vehicle", "vehicleID", vehicle.ID, "reminders", len(reminders))
		return nil
	})
}
