package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/database"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedVendors   int
	seedCustomers int
	seedItems     int
	seedPassword  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo vendors, restaurants, menus and customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		return Seed(db, faker.New(), SeedOptions{
			Vendors:   seedVendors,
			Customers: seedCustomers,
			Items:     seedItems,
			Password:  seedPassword,
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedVendors, "vendors", 5, "vendors to create, one restaurant each")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 20, "customers to create")
	seedCmd.Flags().IntVar(&seedItems, "items", 12, "menu items per restaurant")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password of every seeded account")
}

type SeedOptions struct {
	Vendors, Customers, Items int
	Password                  string
}

func title(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

var seedCities = []string{"karachi", "lahore", "islamabad", "hyderabad"}

// Seed writes demo data in one transaction. Every account shares
// opts.Password so the demo can be signed into.
func Seed(db *gorm.DB, fake faker.Faker, opts SeedOptions) error {
	hash, err := auth.HashSecret(opts.Password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < opts.Vendors; i++ {
			company := fake.Company().Name()
			vendor := models.User{
				Fullname:     fake.Person().Name(),
				Email:        fmt.Sprintf("vendor%d.%s", i+1, strings.ToLower(fake.Internet().Email())),
				PasswordHash: hash,
				Role:         models.RoleVendor,
				CompanyName:  fmt.Sprintf("%s %d", company, i+1),
			}
			if err := tx.Create(&vendor).Error; err != nil {
				return fmt.Errorf("seed vendor: %w", err)
			}

			restaurant := models.Restaurant{
				Name:        company,
				Contact:     fake.Phone().Number(),
				Email:       vendor.Email,
				Address:     fake.Address().Address(),
				City:        seedCities[i%len(seedCities)],
				Description: fake.Lorem().Sentence(10),
				UserID:      vendor.ID,
			}
			if err := tx.Create(&restaurant).Error; err != nil {
				return fmt.Errorf("seed restaurant: %w", err)
			}

			for j := 0; j < opts.Items; j++ {
				item := models.MenuItem{
					RestaurantID: restaurant.ID,
					Name:         title(fake.Lorem().Word()) + " " + title(fake.Lorem().Word()),
					Price:        float64(50 * (1 + rand.Intn(30))),
					Category:     models.MenuCategories[rand.Intn(len(models.MenuCategories))],
					Description:  fake.Lorem().Sentence(8),
					Available:    true,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("seed menu item: %w", err)
				}
			}
		}

		for i := 0; i < opts.Customers; i++ {
			customer := models.User{
				Fullname:     fake.Person().Name(),
				Email:        fmt.Sprintf("customer%d.%s", i+1, strings.ToLower(fake.Internet().Email())),
				PasswordHash: hash,
				Role:         models.RoleCustomer,
			}
			if err := tx.Create(&customer).Error; err != nil {
				return fmt.Errorf("seed customer: %w", err)
			}
		}

		log.Printf("🌱 Seeded %d vendors, %d customers, %d menu items", opts.Vendors, opts.Customers, opts.Vendors*opts.Items)
		return nil
	})
}
