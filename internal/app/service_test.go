package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"convobase/internal/ai"
	"convobase/internal/model"
	platformlogger "convobase/internal/platform/logger"
	"convobase/internal/repository"
)

// newTestDB opens a named in-memory sqlite database so all pooled
// connections see the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.Conversation{},
		&model.ConversationDocument{},
		&model.Message{},
		&model.UsageRecord{},
	))
	return db
}

type testEnv struct {
	db            *gorm.DB
	users         *UserService
	documents     *DocumentService
	conversations *ConversationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	generator, err := ai.NewGenerator("dummy")
	require.NoError(t, err)

	return &testEnv{
		db:        db,
		users:     NewUserService(userRepo),
		documents: NewDocumentService(docRepo, userRepo),
		conversations: NewConversationService(
			db,
			userRepo,
			convRepo,
			msgRepo,
			docRepo,
			generator,
			nil,
			nil,
			platformlogger.NewNop(),
			20,
			4000,
		),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := e.users.CreateUser(CreateUserInput{Email: email, FullName: "Test User"})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createDocument(t *testing.T, userID uint, name, text string) *model.Document {
	t.Helper()
	doc, err := e.documents.CreateDocument(CreateDocumentInput{
		UserID:  userID,
		Name:    name,
		RawText: text,
	})
	require.NoError(t, err)
	return doc
}
