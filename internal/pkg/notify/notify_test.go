package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishBattleEvent_WithoutConnection(t *testing.T) {
	SetNatsConn(nil)

	err := PublishBattleEvent(context.Background(), SubjectBattleResolved, BattleEvent{BattleID: "b-1", Rounds: 4})

	assert.NoError(t, err, "未配置 NATS 时应静默降级")
	assert.False(t, Connected())
	assert.Nil(t, Conn())
}
