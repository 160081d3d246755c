package worker

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"convobase/internal/model"
	"convobase/internal/platform/logger"
	"convobase/internal/repository"
)

func newTestRepo(t *testing.T) (*gorm.DB, *repository.UsageRepository) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UsageRecord{}))
	return db, repository.NewUsageRepository(db)
}

func TestHandlePersistsUsageRecord(t *testing.T) {
	db, repo := newTestRepo(t)
	w := NewUsageWorker(nil, repo, "test-queue", logger.NewNop())

	event := model.TurnEvent{
		ConversationID:   7,
		UserMessageID:    21,
		AssistantMsgID:   22,
		PromptTokens:     13,
		CompletionTokens: 5,
		CompletedAt:      time.Now(),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	w.handle(amqp.Delivery{Body: body})

	var records []model.UsageRecord
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.EqualValues(t, 7, records[0].ConversationID)
	assert.EqualValues(t, 22, records[0].MessageID)
	assert.Equal(t, 13, records[0].PromptTokens)
	assert.Equal(t, 5, records[0].CompletionTokens)
}

func TestHandleRejectsMalformedEvent(t *testing.T) {
	db, repo := newTestRepo(t)
	w := NewUsageWorker(nil, repo, "test-queue", logger.NewNop())

	w.handle(amqp.Delivery{Body: []byte("not json")})

	var count int64
	require.NoError(t, db.Model(&model.UsageRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}
