// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"gastronauta/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures how much data the seeder generates.
type Options struct {
	NumUsers   int
	NumRecipes int
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for demo data
	return &Seeder{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var (
	difficulties   = []string{"easy", "medium", "hard"}
	costs          = []string{"cheap", "moderate", "expensive"}
	cookingMethods = []string{"oven", "stovetop", "grill", "slow cooker", "no-cook", "air fryer"}
)

// ClearAll truncates every application table.
func ClearAll(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comment_reactions, comments, ratings, likes, follows, recipes, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// SeedUsers creates count fake users, always including a handful of fixed
// accounts for manual testing. Every user gets the password "password123".
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]models.User, 0, count)

	for _, name := range []string{"alice", "bob", "test"} {
		if len(users) >= count {
			break
		}
		user := models.User{
			Username:   name,
			Email:      fmt.Sprintf("%s@example.com", name),
			Password:   string(hashed),
			FullName:   gofakeit.Name(),
			Bio:        "Founding member of the test kitchen.",
			AvatarPath: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", name),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating user %s: %w", name, err)
		}
		users = append(users, user)
	}

	for i := len(users); i < count; i++ {
		username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", i)
		user := models.User{
			Username:   username,
			Email:      fmt.Sprintf("%s@example.com", username),
			Password:   string(hashed),
			FullName:   gofakeit.Name(),
			Bio:        gofakeit.Sentence(10),
			AvatarPath: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		}
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Skipping user %s: %v", username, err)
			continue
		}
		users = append(users, user)
	}

	return users, nil
}

// SeedRecipes creates count fake recipes spread across the given users, with
// creation times scattered over the last 90 days.
func (s *Seeder) SeedRecipes(users []models.User, count int) ([]models.Recipe, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own recipes")
	}

	recipes := make([]models.Recipe, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.rand.Intn(len(users))]
		recipe := models.Recipe{
			UserID:        owner.ID,
			Title:         gofakeit.Dinner(),
			Ingredients:   s.ingredientList(),
			Steps:         s.stepList(),
			Description:   gofakeit.Sentence(15),
			PrepTime:      fmt.Sprintf("%d min", 10+s.rand.Intn(110)),
			Difficulty:    difficulties[s.rand.Intn(len(difficulties))],
			Cost:          costs[s.rand.Intn(len(costs))],
			Servings:      fmt.Sprintf("%d", 1+s.rand.Intn(8)),
			CookingMethod: cookingMethods[s.rand.Intn(len(cookingMethods))],
			ImagePath:     fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			CreatedAt:     s.pastTime(90),
		}
		if err := s.db.Create(&recipe).Error; err != nil {
			return nil, fmt.Errorf("creating recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// SeedEngagement adds likes, comments, comment reactions, ratings and follow
// edges across the seeded users and recipes.
func (s *Seeder) SeedEngagement(users []models.User, recipes []models.Recipe) error {
	if len(users) == 0 || len(recipes) == 0 {
		return nil
	}

	var comments []models.Comment
	for i := range recipes {
		recipe := &recipes[i]

		for _, u := range s.sampleUsers(users, s.rand.Intn(len(users)+1)) {
			like := models.Like{UserID: u.ID, RecipeID: recipe.ID, CreatedAt: s.pastTime(30)}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
		}

		for j := 0; j < s.rand.Intn(5); j++ {
			commenter := users[s.rand.Intn(len(users))]
			comment := models.Comment{
				RecipeID:  recipe.ID,
				UserID:    commenter.ID,
				Content:   gofakeit.Sentence(8 + s.rand.Intn(12)),
				CreatedAt: s.pastTime(30),
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			comments = append(comments, comment)
		}

		for _, u := range s.sampleUsers(users, s.rand.Intn(len(users)/2+1)) {
			rating := models.Rating{
				RecipeID: recipe.ID,
				UserID:   u.ID,
				Score:    1 + s.rand.Intn(5),
				Comment:  gofakeit.Sentence(6),
			}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rating).Error; err != nil {
				return fmt.Errorf("creating rating: %w", err)
			}
		}
	}

	for i := range comments {
		for _, u := range s.sampleUsers(users, s.rand.Intn(4)) {
			kind := models.ReactionLike
			if s.rand.Intn(4) == 0 {
				kind = models.ReactionDislike
			}
			reaction := models.CommentReaction{CommentID: comments[i].ID, UserID: u.ID, Kind: kind}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reaction).Error; err != nil {
				return fmt.Errorf("creating comment reaction: %w", err)
			}
		}
	}

	for i := range users {
		for _, followee := range s.sampleUsers(users, s.rand.Intn(len(users))) {
			if followee.ID == users[i].ID {
				continue
			}
			follow := models.Follow{FollowerID: users[i].ID, FolloweeID: followee.ID, CreatedAt: s.pastTime(60)}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
		}
	}

	return nil
}

// Run seeds users, recipes and engagement in one pass.
func (s *Seeder) Run(opts Options) error {
	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	log.Printf("Created %d users", len(users))

	recipes, err := s.SeedRecipes(users, opts.NumRecipes)
	if err != nil {
		return err
	}
	log.Printf("Created %d recipes", len(recipes))

	if err := s.SeedEngagement(users, recipes); err != nil {
		return err
	}
	log.Println("Engagement seeded")
	return nil
}

func (s *Seeder) ingredientList() string {
	n := 3 + s.rand.Intn(8)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("%d %s of %s",
			1+s.rand.Intn(4), gofakeit.RandomString([]string{"cups", "tbsp", "tsp", "grams", "pieces"}),
			strings.ToLower(gofakeit.Vegetable())))
	}
	return strings.Join(lines, "\n")
}

func (s *Seeder) stepList() string {
	n := 3 + s.rand.Intn(6)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, gofakeit.Sentence(10)))
	}
	return strings.Join(lines, "\n")
}

// sampleUsers returns up to n distinct users chosen at random.
func (s *Seeder) sampleUsers(users []models.User, n int) []models.User {
	if n >= len(users) {
		n = len(users)
	}
	perm := s.rand.Perm(len(users))
	out := make([]models.User, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, users[idx])
	}
	return out
}

// pastTime returns a random time within the last maxDays days.
func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.rand.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}
