package services

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"eats-backend/models"
)

var (
	errCreateRestaurant = errors.New("could not create restaurant")
	errEditRestaurant   = errors.New("could not edit restaurant")
	errDeleteRestaurant = errors.New("could not delete restaurant")
	errListRestaurants  = errors.New("could not load restaurants")
	errCreateDish       = errors.New("could not create dish")
	errEditDish         = errors.New("could not edit dish")
	errDeleteDish       = errors.New("could not delete dish")
)

// Restaurants per listing page.
const pageSize = 25

// Restaurants owns restaurant, category and dish management.
type Restaurants struct {
	db *gorm.DB
}

func NewRestaurants(db *gorm.DB) *Restaurants {
	return &Restaurants{db: db}
}

// categorySlug normalizes a category name into its slug key.
func categorySlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// getOrCreateCategory looks a category up by slug, creating it on first use.
func getOrCreateCategory(tx *gorm.DB, name string) (models.Category, error) {
	slug := categorySlug(name)
	var category models.Category
	err := tx.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = models.Category{Name: strings.TrimSpace(name), Slug: slug}
		err = tx.Create(&category).Error
	}
	return category, err
}

type CreateRestaurantInput struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	CoverImage   string `json:"cover_image"`
	CategoryName string `json:"category_name" binding:"required"`
}

func (s *Restaurants) CreateRestaurant(owner models.User, in CreateRestaurantInput) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := getOrCreateCategory(tx, in.CategoryName)
		if err != nil {
			return err
		}
		restaurant = models.Restaurant{
			OwnerID:    owner.ID,
			CategoryID: &category.ID,
			Name:       in.Name,
			Address:    in.Address,
			CoverImage: in.CoverImage,
		}
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		log.Printf("create restaurant: %v", err)
		return models.Restaurant{}, errCreateRestaurant
	}
	return restaurant, nil
}

type EditRestaurantInput struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	CoverImage   *string `json:"cover_image"`
	CategoryName *string `json:"category_name"`
}

func (s *Restaurants) EditRestaurant(owner models.User, restaurantID uint, in EditRestaurantInput) (models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Restaurant{}, ErrRestaurantNotFound
		}
		log.Printf("edit restaurant: load %d: %v", restaurantID, err)
		return models.Restaurant{}, errEditRestaurant
	}
	if restaurant.OwnerID != owner.ID {
		return models.Restaurant{}, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.Name != nil {
			restaurant.Name = *in.Name
		}
		if in.Address != nil {
			restaurant.Address = *in.Address
		}
		if in.CoverImage != nil {
			restaurant.CoverImage = *in.CoverImage
		}
		if in.CategoryName != nil {
			category, err := getOrCreateCategory(tx, *in.CategoryName)
			if err != nil {
				return err
			}
			restaurant.CategoryID = &category.ID
		}
		return tx.Save(&restaurant).Error
	})
	if err != nil {
		log.Printf("edit restaurant %d: %v", restaurantID, err)
		return models.Restaurant{}, errEditRestaurant
	}
	return restaurant, nil
}

func (s *Restaurants) DeleteRestaurant(owner models.User, restaurantID uint) error {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		log.Printf("delete restaurant: load %d: %v", restaurantID, err)
		return errDeleteRestaurant
	}
	if restaurant.OwnerID != owner.ID {
		return ErrForbidden
	}
	if err := s.db.Delete(&restaurant).Error; err != nil {
		log.Printf("delete restaurant %d: %v", restaurantID, err)
		return errDeleteRestaurant
	}
	return nil
}

// Page wraps a paged listing result.
type Page struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Total       int64               `json:"total"`
	TotalPages  int                 `json:"total_pages"`
}

func pageCount(total int64) int {
	return int((total + pageSize - 1) / pageSize)
}

// ListRestaurants returns one page of all restaurants, promoted first.
func (s *Restaurants) ListRestaurants(page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	var total int64
	if err := s.db.Model(&models.Restaurant{}).Count(&total).Error; err != nil {
		log.Printf("list restaurants: count: %v", err)
		return Page{}, errListRestaurants
	}
	var restaurants []models.Restaurant
	err := s.db.Preload("Category").
		Order("is_promoted desc, id asc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&restaurants).Error
	if err != nil {
		log.Printf("list restaurants: %v", err)
		return Page{}, errListRestaurants
	}
	return Page{Restaurants: restaurants, Total: total, TotalPages: pageCount(total)}, nil
}

// GetRestaurant fetches one restaurant with its menu.
func (s *Restaurants) GetRestaurant(restaurantID uint) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.Preload("Dishes").Preload("Category").First(&restaurant, restaurantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Restaurant{}, ErrRestaurantNotFound
		}
		log.Printf("get restaurant %d: %v", restaurantID, err)
		return models.Restaurant{}, errListRestaurants
	}
	return restaurant, nil
}

// SearchRestaurants returns one page of restaurants whose name contains the
// query, case-insensitively.
func (s *Restaurants) SearchRestaurants(query string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	pattern := "%" + strings.ToLower(query) + "%"
	base := s.db.Model(&models.Restaurant{}).Where("LOWER(name) LIKE ?", pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		log.Printf("search restaurants %q: count: %v", query, err)
		return Page{}, errListRestaurants
	}
	var restaurants []models.Restaurant
	err := s.db.Where("LOWER(name) LIKE ?", pattern).
		Order("id asc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&restaurants).Error
	if err != nil {
		log.Printf("search restaurants %q: %v", query, err)
		return Page{}, errListRestaurants
	}
	return Page{Restaurants: restaurants, Total: total, TotalPages: pageCount(total)}, nil
}

// CategoryCount pairs a category with how many restaurants it holds.
type CategoryCount struct {
	models.Category
	RestaurantCount int64 `json:"restaurant_count"`
}

// AllCategories lists every category with its restaurant count.
func (s *Restaurants) AllCategories() ([]CategoryCount, error) {
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		log.Printf("all categories: %v", err)
		return nil, errListRestaurants
	}
	counted := make([]CategoryCount, 0, len(categories))
	for _, category := range categories {
		var n int64
		if err := s.db.Model(&models.Restaurant{}).Where("category_id = ?", category.ID).Count(&n).Error; err != nil {
			log.Printf("all categories: count %s: %v", category.Slug, err)
			return nil, errListRestaurants
		}
		counted = append(counted, CategoryCount{Category: category, RestaurantCount: n})
	}
	return counted, nil
}

// CategoryBySlug returns a category and one page of its restaurants,
// promoted first.
func (s *Restaurants) CategoryBySlug(slug string, page int) (models.Category, Page, error) {
	if page < 1 {
		page = 1
	}
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, Page{}, ErrCategoryNotFound
		}
		log.Printf("category %s: %v", slug, err)
		return models.Category{}, Page{}, errListRestaurants
	}

	base := s.db.Model(&models.Restaurant{}).Where("category_id = ?", category.ID)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		log.Printf("category %s: count: %v", slug, err)
		return models.Category{}, Page{}, errListRestaurants
	}
	var restaurants []models.Restaurant
	err := s.db.Where("category_id = ?", category.ID).
		Order("is_promoted desc, id asc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&restaurants).Error
	if err != nil {
		log.Printf("category %s: %v", slug, err)
		return models.Category{}, Page{}, errListRestaurants
	}
	return category, Page{Restaurants: restaurants, Total: total, TotalPages: pageCount(total)}, nil
}

type CreateDishInput struct {
	RestaurantID uint               `json:"restaurant_id" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	Price        float64            `json:"price" binding:"required,gt=0"`
	Description  string             `json:"description"`
	Photo        string             `json:"photo"`
	Options      models.DishOptions `json:"options"`
}

func (s *Restaurants) CreateDish(owner models.User, in CreateDishInput) (models.Dish, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, in.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Dish{}, ErrRestaurantNotFound
		}
		log.Printf("create dish: load restaurant %d: %v", in.RestaurantID, err)
		return models.Dish{}, errCreateDish
	}
	if restaurant.OwnerID != owner.ID {
		return models.Dish{}, ErrForbidden
	}

	dish := models.Dish{
		RestaurantID: restaurant.ID,
		Name:         in.Name,
		Price:        in.Price,
		Description:  in.Description,
		Photo:        in.Photo,
		Options:      in.Options,
	}
	if err := s.db.Create(&dish).Error; err != nil {
		log.Printf("create dish: %v", err)
		return models.Dish{}, errCreateDish
	}
	return dish, nil
}

type EditDishInput struct {
	Name        *string             `json:"name"`
	Price       *float64            `json:"price" binding:"omitempty,gt=0"`
	Description *string             `json:"description"`
	Photo       *string             `json:"photo"`
	Options     *models.DishOptions `json:"options"`
}

func (s *Restaurants) EditDish(owner models.User, dishID uint, in EditDishInput) (models.Dish, error) {
	dish, err := s.loadOwnedDish(owner, dishID, errEditDish)
	if err != nil {
		return models.Dish{}, err
	}

	if in.Name != nil {
		dish.Name = *in.Name
	}
	if in.Price != nil {
		dish.Price = *in.Price
	}
	if in.Description != nil {
		dish.Description = *in.Description
	}
	if in.Photo != nil {
		dish.Photo = *in.Photo
	}
	if in.Options != nil {
		dish.Options = *in.Options
	}
	if err := s.db.Save(&dish).Error; err != nil {
		log.Printf("edit dish %d: %v", dishID, err)
		return models.Dish{}, errEditDish
	}
	return dish, nil
}

func (s *Restaurants) DeleteDish(owner models.User, dishID uint) error {
	dish, err := s.loadOwnedDish(owner, dishID, errDeleteDish)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&dish).Error; err != nil {
		log.Printf("delete dish %d: %v", dishID, err)
		return errDeleteDish
	}
	return nil
}

func (s *Restaurants) loadOwnedDish(owner models.User, dishID uint, generic error) (models.Dish, error) {
	var dish models.Dish
	if err := s.db.Preload("Restaurant").First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Dish{}, ErrDishNotFound
		}
		log.Printf("load dish %d: %v", dishID, err)
		return models.Dish{}, generic
	}
	if dish.Restaurant.OwnerID != owner.ID {
		return models.Dish{}, ErrForbidden
	}
	return dish, nil
}
