package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/config"
	"github.com/nahidkabir/shongi/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type seedUser struct {
	Name       string
	Email      string
	Age        int
	Gender     string
	Religion   string
	Location   string
	Occupation string
	Bio        string
	Plan       model.Plan
	Verified   bool
}

var demoUsers = []seedUser{
	{"Rahim Uddin", "rahim@shongi.local", 28, "male", "islam", "Dhaka", "Software Engineer", "Looking for a life partner in Dhaka.", model.PlanVIP, true},
	{"Fatema Begum", "fatema@shongi.local", 25, "female", "islam", "Dhaka", "Teacher", "I love books and quiet evenings.", model.PlanPremium, true},
	{"Kamal Hossain", "kamal@shongi.local", 31, "male", "islam", "Chattogram", "Businessman", "Family-oriented, settled in Chattogram.", model.PlanBasic, false},
	{"Nusrat Jahan", "nusrat@shongi.local", 26, "female", "islam", "Sylhet", "Doctor", "Physician at a government hospital.", model.PlanVIP, true},
	{"Anita Das", "anita@shongi.local", 27, "female", "hinduism", "Khulna", "Architect", "Design is my passion.", model.PlanBasic, false},
	{"Sujan Roy", "sujan@shongi.local", 30, "male", "hinduism", "Khulna", "Architect", "Building homes, looking to build one of my own.", model.PlanPremium, true},
	{"Mitu Akter", "mitu@shongi.local", 24, "female", "islam", "Rajshahi", "Student", "Final-year university student.", model.PlanBasic, false},
	{"Arif Chowdhury", "arif@shongi.local", 33, "male", "islam", "Dhaka", "Banker", "Simple life, big dreams.", model.PlanVIP, false},
}

func main() {
	// Load config
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	// Common password for all demo users
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Printf("🌱 Seeding %d users...", len(demoUsers))

	users := make([]model.User, 0, len(demoUsers))
	for _, s := range demoUsers {
		var existing model.User
		if err := db.Where("email = ?", s.Email).First(&existing).Error; err == nil {
			users = append(users, existing)
			continue
		}

		user := model.User{
			ID:           uuid.New(),
			FullName:     s.Name,
			Email:        s.Email,
			Password:     string(hashedPassword),
			Age:          s.Age,
			Gender:       s.Gender,
			Religion:     s.Religion,
			Location:     s.Location,
			Occupation:   s.Occupation,
			Bio:          s.Bio,
			Plan:         s.Plan,
			Language:     "bn",
			ProfilePhoto: fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", s.Email),
			Privacy: model.Privacy{
				ShowPhoto:       true,
				IsProfilePublic: true,
			},
		}
		if s.Verified {
			user.PhoneVerification = model.Verification{Status: model.VerificationVerified, EvidenceURL: "phone"}
			user.IDVerification = model.Verification{Status: model.VerificationVerified, EvidenceURL: user.ProfilePhoto}
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", s.Email, err)
			continue
		}
		log.Printf("✅ Created user: %s | Email: %s | Pass: %s", s.Name, s.Email, password)
		users = append(users, user)
	}

	if len(users) >= 4 {
		seedConnections(db, users)
		seedConversation(db, users[0], users[1])
		seedPosts(db, users)
	}

	log.Println("🎉 Seeding completed!")
}

// seedConnections creates one accepted edge and one pending request
func seedConnections(db *gorm.DB, users []model.User) {
	edges := []model.Connection{
		{RequesterID: users[0].ID, AddresseeID: users[1].ID, Status: model.ConnectionAccepted},
		{RequesterID: users[2].ID, AddresseeID: users[3].ID, Status: model.ConnectionPending},
		{RequesterID: users[5].ID, AddresseeID: users[4].ID, Status: model.ConnectionAccepted},
	}

	for _, edge := range edges {
		var count int64
		db.Model(&model.Connection{}).
			Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
				edge.RequesterID, edge.AddresseeID, edge.AddresseeID, edge.RequesterID).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&edge).Error; err != nil {
			log.Printf("❌ Failed to create connection: %v", err)
		}
	}
	log.Println("✅ Seeded connection graph")
}

// seedConversation creates a direct thread with a few messages between
// two connected users
func seedConversation(db *gorm.DB, a, b model.User) {
	var count int64
	db.Table("conversation_members cm1").
		Joins("JOIN conversation_members cm2 ON cm1.conversation_id = cm2.conversation_id").
		Where("cm1.user_id = ? AND cm2.user_id = ?", a.ID, b.ID).
		Count(&count)
	if count > 0 {
		return
	}

	conv := model.Conversation{ID: uuid.New()}
	if err := db.Create(&conv).Error; err != nil {
		log.Printf("❌ Failed to create conversation: %v", err)
		return
	}

	db.Create(&model.ConversationMember{ConversationID: conv.ID, UserID: a.ID})
	db.Create(&model.ConversationMember{ConversationID: conv.ID, UserID: b.ID})

	texts := []struct {
		sender uuid.UUID
		text   string
	}{
		{a.ID, "আসসালামু আলাইকুম, কেমন আছেন?"},
		{b.ID, "ওয়ালাইকুম আসসালাম, ভালো আছি। আপনি?"},
		{a.ID, "আলহামদুলিল্লাহ। আপনার প্রোফাইল দেখে ভালো লাগলো।"},
	}

	var last string
	var lastAt time.Time
	for _, t := range texts {
		msg := model.Message{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			SenderID:       t.sender,
			Text:           t.text,
			Type:           model.MessageTypeText,
		}
		if err := db.Create(&msg).Error; err != nil {
			continue
		}
		last = t.text
		lastAt = msg.CreatedAt
	}

	db.Model(&model.Conversation{}).Where("id = ?", conv.ID).Updates(map[string]interface{}{
		"last_message":      last,
		"last_message_time": lastAt,
	})
	db.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conv.ID, b.ID).
		Update("unread_count", 1)

	log.Printf("✅ Created demo conversation between %s and %s", a.FullName, b.FullName)
}

// seedPosts creates a couple of feed posts with likes and a comment
func seedPosts(db *gorm.DB, users []model.User) {
	var count int64
	db.Model(&model.Post{}).Count(&count)
	if count > 0 {
		return
	}

	author := users[1]
	post := model.Post{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		AuthorName:  author.FullName,
		AuthorPhoto: author.ProfilePhoto,
		Content:     "আজকে শঙ্গীতে যোগ দিলাম। সবাইকে শুভেচ্ছা! 💝",
	}
	if err := db.Create(&post).Error; err != nil {
		log.Printf("❌ Failed to create post: %v", err)
		return
	}

	db.Create(&model.PostLike{PostID: post.ID, UserID: users[0].ID})
	db.Create(&model.PostLike{PostID: post.ID, UserID: users[3].ID})
	db.Create(&model.Comment{
		PostID:      post.ID,
		AuthorID:    users[0].ID,
		AuthorName:  users[0].FullName,
		AuthorPhoto: users[0].ProfilePhoto,
		Text:        "স্বাগতম! 🎉",
	})

	second := model.Post{
		ID:         uuid.New(),
		AuthorID:   users[3].ID,
		AuthorName: users[3].FullName,
		Content:    "Verified profile tips: submit a clear photo of your NID and keep your phone number up to date.",
	}
	db.Create(&second)

	log.Println("✅ Seeded community feed")
}
