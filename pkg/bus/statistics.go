package bus

import (
	"go.uber.org/zap"
)

type Statistics struct {
	PostCount     uint64
	DeliveryCount uint64
	DropCount     uint64
	Subscribers   int
}

func (s Statistics) Print(logger *zap.Logger) {
	logger.Info("hub statistics",
		zap.Uint64("post_count", s.PostCount),
		zap.Uint64("delivery_count", s.DeliveryCount),
		zap.Uint64("drop_count", s.DropCount),
		zap.Int("subscribers", s.Subscribers))
}
