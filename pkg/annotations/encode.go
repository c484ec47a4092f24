package annotations

import (
	"encoding/json"

	"go.uber.org/zap"
)

// encode is the one serialization boundary between structured values and
// annotation strings. Everything structured passes through here.
func encode(value any) string {
	j, err := json.Marshal(value)
	if err != nil {
		zap.L().Error("annotation value encode", zap.Error(err))
		return ""
	}
	return string(j)
}
