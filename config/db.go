package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking/models"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// DSN resolves the MySQL DSN: a mysql:// URL, a raw DSN, or the DB_* parts.
func (d DatabaseConfig) DSN() (string, error) {
	if d.URL != "" {
		if strings.HasPrefix(d.URL, "mysql://") {
			return mysqlDSNFromURL(d.URL)
		}
		return d.URL, nil
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Pass, d.Host, d.Port, d.Name,
	), nil
}

// ConnectDatabase opens the MySQL connection, migrates the schema and, when
// seed is set, fills empty tables with demo data.
func ConnectDatabase(cfg DatabaseConfig, seed bool, log *logrus.Logger) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(log, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// parent -> child order
	if err := db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Guest{},
		&models.Booking{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if seed {
		SeedDatabase(db, log)
	}
	return db, nil
}

// SeedDatabase creates the default admin, room types and rooms when their
// tables are empty.
func SeedDatabase(db *gorm.DB, log *logrus.Logger) {
	// ---------------- Users ----------------
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.WithError(err).Warn("failed to hash default admin password")
		} else {
			admin := models.User{
				Email:    "admin@hotel.local",
				Password: string(hash),
				FullName: "Admin User",
				Role:     models.UserRoleAdmin,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.WithError(err).Warn("failed to create default admin")
			} else {
				log.Info("default admin seeded")
			}
		}
	}

	// ---------------- RoomTypes ----------------
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{Name: "Standard", Code: "STD", Description: "Standard Room", BasePrice: 1200, MaxOccupancy: 2,
				Amenities: datatypes.NewJSONSlice([]string{"Wi-Fi", "Air conditioning"})},
			{Name: "Superior", Code: "SUP", Description: "Superior Room", BasePrice: 1800, MaxOccupancy: 3,
				Amenities: datatypes.NewJSONSlice([]string{"Wi-Fi", "Air conditioning", "City view"})},
			{Name: "Deluxe Suite", Code: "DLX", Description: "Deluxe Suite", BasePrice: 2500, MaxOccupancy: 4,
				Amenities: datatypes.NewJSONSlice([]string{"Wi-Fi", "Bathtub", "Minibar", "Balcony"})},
			{Name: "Connecting", Code: "CON", Description: "Connecting Room", BasePrice: 3200, MaxOccupancy: 5,
				Amenities: datatypes.NewJSONSlice([]string{"Wi-Fi", "Two bathrooms", "Sofa bed"})},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			log.WithError(err).Warn("failed to seed room types")
			return
		}
		log.Info("room types seeded")

		rooms := make([]models.Room, 0, len(roomTypes)*3)
		for i, rt := range roomTypes {
			floor := fmt.Sprintf("%d", i+1)
			for n := 1; n <= 3; n++ {
				rooms = append(rooms, models.Room{
					RoomTypeID: rt.ID,
					RoomNumber: fmt.Sprintf("%d%02d", i+1, n),
					Floor:      floor,
					Status:     models.RoomStatusAvailable,
				})
			}
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.WithError(err).Warn("failed to seed rooms")
			return
		}
		log.WithField("count", len(rooms)).Info("rooms seeded")
	}
}
