// Package seed populates a database with demo authors, travel posts and engagement.
// It is intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"travelog/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays spreads post creation times over this many days back.
	MaxDays int
	// RandSeed makes the generated data reproducible when non-zero.
	RandSeed int64
}

// Seeder writes generated data through GORM.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	cost  int
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{
		db:    db,
		faker: gofakeit.New(seed),
		opts:  opts,
		cost:  bcrypt.DefaultCost,
	}
}

// ClearAll removes every row the application owns, children first.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{&models.Comment{}, &models.Like{}, &models.Dislike{}, &models.Post{}, &models.User{}}
	for _, t := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	log.Println("cleared existing data")
	return nil
}

// Run seeds users, posts and engagement according to the options.
func (s *Seeder) Run() error {
	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}
	users, err := s.SeedUsers(s.opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, s.opts.NumPosts)
	if err != nil {
		return err
	}
	return s.SeedEngagement(users, posts)
}

// SeedUsers creates n users sharing DefaultPassword.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]*models.User, 0, n)
	seen := make(map[string]struct{}, n)
	for len(users) < n {
		name := s.username()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		users = append(users, &models.User{Username: name, Password: string(hash)})
	}
	if len(users) == 0 {
		return users, nil
	}

	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	log.Printf("created %d users", len(users))
	return users, nil
}

// SeedPosts spreads n posts across the given authors.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 || n <= 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		posts = append(posts, s.buildPost(author))
	}
	if err := s.db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))
	return posts, nil
}

// SeedEngagement adds likes, dislikes and comments from random users.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	var likes []models.Like
	var dislikes []models.Dislike
	var comments []models.Comment
	for _, p := range posts {
		for _, u := range users {
			switch roll := s.faker.Number(1, 100); {
			case roll <= 30:
				likes = append(likes, models.Like{PostID: p.ID, UserID: u.ID})
			case roll <= 36:
				dislikes = append(dislikes, models.Dislike{PostID: p.ID, UserID: u.ID})
			}
		}
		for i := s.faker.Number(0, 4); i > 0; i-- {
			u := users[s.faker.Number(0, len(users)-1)]
			comments = append(comments, models.Comment{
				CommentBody: s.faker.Sentence(s.faker.Number(4, 16)),
				Username:    u.Username,
				UserID:      u.ID,
				PostID:      p.ID,
			})
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(likes) > 0 {
			if err := tx.CreateInBatches(&likes, 200).Error; err != nil {
				return fmt.Errorf("create likes: %w", err)
			}
		}
		if len(dislikes) > 0 {
			if err := tx.CreateInBatches(&dislikes, 200).Error; err != nil {
				return fmt.Errorf("create dislikes: %w", err)
			}
		}
		if len(comments) > 0 {
			if err := tx.CreateInBatches(&comments, 200).Error; err != nil {
				return fmt.Errorf("create comments: %w", err)
			}
		}
		log.Printf("created %d likes, %d dislikes, %d comments", len(likes), len(dislikes), len(comments))
		return nil
	})
}

func (s *Seeder) buildPost(author *models.User) *models.Post {
	city := s.faker.City()
	country := s.faker.Country()

	var body strings.Builder
	for i := s.faker.Number(1, 4); i > 0; i-- {
		body.WriteString("<p>")
		body.WriteString(s.faker.Paragraph(1, s.faker.Number(2, 5), 12, " "))
		body.WriteString("</p>")
	}

	daysBack := s.faker.Number(0, s.opts.MaxDays-1)
	minutesBack := s.faker.Number(0, 24*60-1)
	createdAt := time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minutesBack)*time.Minute)

	post := &models.Post{
		Title:     fmt.Sprintf("%s days in %s, %s", s.faker.Adjective(), city, country),
		PostText:  body.String(),
		Username:  author.Username,
		UserID:    author.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if s.faker.Bool() {
		url := fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", s.faker.UUID())
		post.ImageURL = &url
	}
	return post
}

// username produces a name valid for registration: 3-15 chars of [A-Za-z0-9_-].
func (s *Seeder) username() string {
	var b strings.Builder
	for _, r := range s.faker.Username() {
		if r == '_' || r == '-' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) > 11 {
		name = name[:11]
	}
	return fmt.Sprintf("%s%d", name, s.faker.Number(100, 9999))
}
